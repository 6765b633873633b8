package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when a frontmatter block parses as YAML but its
// top level is not a key/value mapping.
var ErrNotMapping = errors.New("frontmatter is not a YAML mapping")

// Fields is a key-ordered view over a frontmatter mapping. Unknown keys,
// nested values and comments pass through untouched; new keys are appended.
type Fields struct {
	node *yaml.Node
}

// NewFields returns an empty mapping.
func NewFields() *Fields {
	return &Fields{node: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

// ParseFields parses a raw frontmatter block (without delimiters).
func ParseFields(raw []byte) (*Fields, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return NewFields(), nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return NewFields(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	return &Fields{node: root}, nil
}

// Has reports whether key is declared at the top level.
func (f *Fields) Has(key string) bool {
	return f.index(key) >= 0
}

// Set assigns a string value, replacing an existing key in place or appending
// a new key at the end.
func (f *Fields) Set(key, value string) {
	val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	if i := f.index(key); i >= 0 {
		f.node.Content[i+1] = val
		return
	}
	f.node.Content = append(f.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		val,
	)
}

// Len returns the number of top-level keys.
func (f *Fields) Len() int {
	return len(f.node.Content) / 2
}

// Marshal serializes the mapping (without delimiters) using the newline in style.
func (f *Fields) Marshal(style Style) ([]byte, error) {
	if f.Len() == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f.node); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	if nl := style.newline(); nl != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(nl))
	}
	return out, nil
}

func (f *Fields) index(key string) int {
	for i := 0; i+1 < len(f.node.Content); i += 2 {
		if f.node.Content[i].Value == key {
			return i
		}
	}
	return -1
}
