package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFields_PreservesOrderOnAppend(t *testing.T) {
	f, err := ParseFields([]byte("title: Setup\nweight: 2\ntags:\n  - install\n"))
	require.NoError(t, err)
	require.Equal(t, 3, f.Len())

	f.Set("layout", "../layouts/MarkdownLayout.astro")

	out, err := f.Marshal(Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, "title: Setup\nweight: 2\ntags:\n  - install\nlayout: ../layouts/MarkdownLayout.astro\n", string(out))
}

func TestFields_SetReplacesInPlace(t *testing.T) {
	f, err := ParseFields([]byte("layout: a\ntitle: t\n"))
	require.NoError(t, err)

	f.Set("layout", "b")

	require.Equal(t, 2, f.Len())
	out, err := f.Marshal(Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, "layout: b\ntitle: t\n", string(out))
}

func TestFields_Has(t *testing.T) {
	f, err := ParseFields([]byte("api:\n  method: GET\nopenapi: x\n"))
	require.NoError(t, err)

	require.True(t, f.Has("api"))
	require.False(t, f.Has("method"), "nested keys are not top-level")
	require.False(t, f.Has("layout"))
}

func TestParseFields_Empty(t *testing.T) {
	f, err := ParseFields([]byte("  \n"))
	require.NoError(t, err)
	require.Equal(t, 0, f.Len())

	out, err := f.Marshal(Style{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestParseFields_Errors(t *testing.T) {
	_, err := ParseFields([]byte("- a\n- b\n"))
	require.ErrorIs(t, err, ErrNotMapping)

	_, err = ParseFields([]byte("key: [unclosed\n"))
	require.Error(t, err)
}

func TestFields_MarshalCRLF(t *testing.T) {
	f := NewFields()
	f.Set("title", "intro")
	f.Set("layout", "../layouts/MarkdownLayout.astro")

	out, err := f.Marshal(Style{Newline: "\r\n"})
	require.NoError(t, err)
	require.Equal(t, "title: intro\r\nlayout: ../layouts/MarkdownLayout.astro\r\n", string(out))
}
