// Package buildconfig patches the generated site's astro.config.mjs.
//
// The file is never parsed as JavaScript. A Patch lists the imports and
// top-level config fields a stage needs; Apply adds the ones the defineConfig
// object does not already declare, right after its anchor. Because presence is
// checked per key, applying the same Patch any number of times yields the
// same file, and patches from different stages compose.
package buildconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// FileName is the build configuration file at the workspace root.
const FileName = "astro.config.mjs"

// Anchor is the statement all fields are inserted after.
const Anchor = "export default defineConfig({"

// ErrAnchorNotFound is returned when the file has no Anchor.
var ErrAnchorNotFound = errors.New("build configuration anchor not found")

// Import is a default import: `import Name from 'Source';`.
type Import struct {
	Name   string
	Source string
}

func (i Import) line() string {
	return fmt.Sprintf("import %s from %s;\n", i.Name, Quote(i.Source))
}

// Field is a top-level config property `Key: Expr,`. Expr is emitted verbatim.
type Field struct {
	Key  string
	Expr string
	// Guard names another key whose presence also suppresses this field.
	Guard string
}

// Patch is the set of declarations one stage wants present.
type Patch struct {
	Imports []Import
	Fields  []Field
}

// Empty reports whether the patch declares nothing.
func (p Patch) Empty() bool {
	return len(p.Imports) == 0 && len(p.Fields) == 0
}

// Result lists what Apply changed.
type Result struct {
	Imports []string
	Fields  []string
	// Conflicts are keys the file already declares with a different
	// expression than the patch wanted. They are left as the file has them.
	Conflicts []string
}

// Changed reports whether anything was added.
func (r Result) Changed() bool {
	return len(r.Imports) > 0 || len(r.Fields) > 0
}

// Quote renders s as a single-quoted JavaScript string literal.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

// Declared reports whether key is a top-level property of the defineConfig
// object in src. Without an Anchor it falls back to any line starting with
// `key:`.
func Declared(src []byte, key string) bool {
	if decl, ok := declarations(src); ok {
		_, found := decl[key]
		return found
	}
	return keyPattern(key).Match(src)
}

func keyPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(key) + `\s*:`)
}

func imported(src []byte, source string) bool {
	return bytes.Contains(src, []byte("'"+source+"'")) || bytes.Contains(src, []byte(`"`+source+`"`))
}

// Apply returns src with the missing declarations of p added. If fields are
// missing and src has no Anchor, src is returned unchanged with ErrAnchorNotFound.
func Apply(src []byte, p Patch) ([]byte, Result, error) {
	var res Result

	decl, anchored := declarations(src)
	has := func(key string) bool {
		if anchored {
			_, ok := decl[key]
			return ok
		}
		return keyPattern(key).Match(src)
	}

	var fields strings.Builder
	for _, f := range p.Fields {
		if has(f.Key) {
			if expr, ok := decl[f.Key]; ok && expr != f.Expr {
				res.Conflicts = append(res.Conflicts, f.Key)
			}
			continue
		}
		if f.Guard != "" && has(f.Guard) {
			continue
		}
		fmt.Fprintf(&fields, "\n  %s: %s,", f.Key, f.Expr)
		res.Fields = append(res.Fields, f.Key)
	}

	out := src
	if fields.Len() > 0 {
		idx := bytes.Index(src, []byte(Anchor))
		if idx < 0 {
			return src, Result{}, ErrAnchorNotFound
		}
		at := idx + len(Anchor)
		out = make([]byte, 0, len(src)+fields.Len())
		out = append(out, src[:at]...)
		out = append(out, fields.String()...)
		out = append(out, src[at:]...)
	}

	var imports strings.Builder
	for _, imp := range p.Imports {
		if imported(out, imp.Source) {
			continue
		}
		imports.WriteString(imp.line())
		res.Imports = append(res.Imports, imp.Source)
	}
	if imports.Len() > 0 {
		out = append([]byte(imports.String()), out...)
	}
	return out, res, nil
}

// ApplyFile applies p to the file at path in place. The file is only
// rewritten when something was added.
func ApplyFile(path string, p Patch) (Result, error) {
	if p.Empty() {
		return Result{}, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	out, res, err := Apply(src, p)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if !res.Changed() {
		return res, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return Result{}, err
	}
	return res, nil
}
