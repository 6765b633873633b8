package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := New("node_modules", ".git")
	require.True(t, s.Has(".git"))
	require.False(t, s.Has(".github"))
	require.False(t, Set[string](nil).Has("x"))

	s.Insert(".lito", ".git")
	require.Len(t, s, 3)
}

func TestSorted(t *testing.T) {
	require.Equal(t, []string{"a.md", "b/c.md", "z.mdx"}, Sorted(New("z.mdx", "a.md", "b/c.md", "a.md")))
	require.Empty(t, Sorted(Set[int]{}))
}
