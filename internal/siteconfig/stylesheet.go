package siteconfig

import (
	"fmt"
	"sort"
	"strings"
)

// ThemeVarPrefix prefixes every generated custom property.
const ThemeVarPrefix = "--lito-color-"

// Stylesheet renders branding.colors as CSS custom properties on :root.
// Without colors it returns an empty string; the file is still written so
// unconditional imports resolve.
func Stylesheet(doc map[string]any) string {
	branding, _ := doc["branding"].(map[string]any)
	colors, _ := branding["colors"].(map[string]any)

	keys := make([]string, 0, len(colors))
	for k, v := range colors {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s%s: %s;\n", ThemeVarPrefix, cssIdent(k), strings.TrimSpace(colors[k].(string)))
	}
	b.WriteString("}\n")
	return b.String()
}

// cssIdent converts camelCase keys to kebab-case.
func cssIdent(key string) string {
	var b strings.Builder
	for i, r := range key {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
