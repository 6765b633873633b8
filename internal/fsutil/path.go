package fsutil

import (
	"path/filepath"
	"strings"
)

// Within reports whether path is root or lies beneath it. Both are compared
// lexically, so callers pass cleaned absolute paths.
func Within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
