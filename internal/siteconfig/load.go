package siteconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
)

// Load reads a JSON object from path. Numbers are kept as json.Number so
// they are written back exactly as read.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read site configuration").
			WithContext("path", path).Build()
	}
	doc, err := decode(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfigParse, "malformed site configuration").
			WithContext("path", path).Build()
	}
	return doc, nil
}

func decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be an object, got %T", v)
	}
	return doc, nil
}

// Save writes doc as two-space indented JSON.
func Save(path string, doc map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode site configuration").Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create site configuration directory").
			WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write site configuration").
			WithContext("path", path).Build()
	}
	return nil
}
