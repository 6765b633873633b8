package docsync

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/lito/internal/frontmatter"
)

const (
	markdownLayout = "layouts/MarkdownLayout.astro"
	apiLayout      = "layouts/APILayout.astro"
)

var (
	layoutLine = regexp.MustCompile(`(?m)^layout\s*:`)
	apiLine    = regexp.MustCompile(`(?m)^api\s*:`)
)

// LayoutPath returns the layout reference for a page depth levels below the
// content root. Pages at the root are depth 0.
func LayoutPath(depth int, api bool) string {
	name := markdownLayout
	if api {
		name = apiLayout
	}
	return strings.Repeat("../", depth+1) + name
}

// Depth counts the directory separators in a slash-separated relative path.
func Depth(rel string) int {
	return strings.Count(path.Clean(rel), "/")
}

// TitleFromName derives a page title from its file name: extension dropped,
// hyphens turned into spaces.
func TitleFromName(name string) string {
	stem := strings.TrimSuffix(name, path.Ext(name))
	return strings.ReplaceAll(stem, "-", " ")
}

// Injection describes what InjectLayout did to a page.
type Injection int

const (
	Unchanged   Injection = iota // page already declared a layout
	Synthesized                  // page had no frontmatter; a block was created
	Appended                     // layout added to an existing block
)

// InjectLayout returns content with a layout field guaranteed. rel is the
// slash-separated path of the page relative to the content root.
//
// A page that already declares a layout is returned untouched, even if its
// fields mark it as an API page: an explicit choice always wins.
func InjectLayout(content []byte, rel string) ([]byte, Injection, error) {
	depth := Depth(rel)

	raw, body, had, style, err := frontmatter.Split(content)
	if err != nil {
		return content, Unchanged, err
	}
	if !had {
		return synthesize(content, rel, depth, style)
	}

	fields, err := frontmatter.ParseFields(raw)
	if err != nil {
		return appendText(raw, body, depth, style, err)
	}
	if fields.Has("layout") {
		return content, Unchanged, nil
	}
	fields.Set("layout", LayoutPath(depth, fields.Has("api")))

	out, err := fields.Marshal(style)
	if err != nil {
		return content, Unchanged, err
	}
	return frontmatter.Join(out, body, true, style), Appended, nil
}

func synthesize(content []byte, rel string, depth int, style frontmatter.Style) ([]byte, Injection, error) {
	fields := frontmatter.NewFields()
	fields.Set("title", TitleFromName(path.Base(rel)))
	fields.Set("layout", LayoutPath(depth, false))

	raw, err := fields.Marshal(style)
	if err != nil {
		return content, Unchanged, err
	}
	nl := []byte(style.Newline)
	var buf bytes.Buffer
	buf.Write(frontmatter.Join(raw, nil, true, style))
	buf.Write(nl)
	buf.Write(content)
	return buf.Bytes(), Synthesized, nil
}

// ErrUnparsedFrontmatter marks pages whose block was not valid YAML and was
// patched textually instead.
var ErrUnparsedFrontmatter = errors.New("frontmatter is not valid YAML")

// appendText handles blocks the YAML parser rejects: the layout line is
// appended to the raw text so the page still renders with a layout.
func appendText(raw, body []byte, depth int, style frontmatter.Style, cause error) ([]byte, Injection, error) {
	if layoutLine.Match(raw) {
		return frontmatter.Join(raw, body, true, style), Unchanged, fmt.Errorf("%w: %w", ErrUnparsedFrontmatter, cause)
	}
	block := make([]byte, 0, len(raw)+64)
	block = append(block, raw...)
	if len(block) > 0 && !bytes.HasSuffix(block, []byte("\n")) {
		block = append(block, style.Newline...)
	}
	block = append(block, "layout: "+LayoutPath(depth, apiLine.Match(raw))+style.Newline...)
	return frontmatter.Join(block, body, true, style), Appended, fmt.Errorf("%w: %w", ErrUnparsedFrontmatter, cause)
}
