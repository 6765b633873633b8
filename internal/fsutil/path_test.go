package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithin(t *testing.T) {
	root := filepath.Join("/", "work", "docs")
	require.True(t, Within(root, root))
	require.True(t, Within(root, filepath.Join(root, "guide", "a.md")))
	require.False(t, Within(root, filepath.Join("/", "work", "docs-config.json")))
	require.False(t, Within(root, filepath.Join("/", "work", "docsx", "a.md")))
	require.False(t, Within(root, filepath.Join("/", "work")))
	require.True(t, Within(root, filepath.Join(root, "..foo")))
}
