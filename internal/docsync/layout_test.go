package docsync

import (
	"testing"

	"git.home.luguber.info/inful/lito/internal/frontmatter"
	"github.com/stretchr/testify/require"
)

func TestLayoutPath(t *testing.T) {
	require.Equal(t, "../layouts/MarkdownLayout.astro", LayoutPath(0, false))
	require.Equal(t, "../../layouts/MarkdownLayout.astro", LayoutPath(1, false))
	require.Equal(t, "../../../layouts/APILayout.astro", LayoutPath(2, true))
}

func TestDepth(t *testing.T) {
	require.Equal(t, 0, Depth("index.md"))
	require.Equal(t, 1, Depth("api/endpoints.md"))
	require.Equal(t, 2, Depth("guide/advanced/tuning.mdx"))
}

func TestTitleFromName(t *testing.T) {
	require.Equal(t, "getting started", TitleFromName("getting-started.md"))
	require.Equal(t, "intro", TitleFromName("intro.mdx"))
}

func TestInjectLayout(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		in   string
		want string
		how  Injection
	}{
		{
			name: "no frontmatter",
			rel:  "guide/getting-started.md",
			in:   "# Start\n",
			want: "---\ntitle: getting started\nlayout: ../../layouts/MarkdownLayout.astro\n---\n\n# Start\n",
			how:  Synthesized,
		},
		{
			name: "existing block without layout",
			rel:  "setup.md",
			in:   "---\ntitle: Setup\nweight: 3\n---\n# Setup\n",
			want: "---\ntitle: Setup\nweight: 3\nlayout: ../layouts/MarkdownLayout.astro\n---\n# Setup\n",
			how:  Appended,
		},
		{
			name: "api page gets api layout",
			rel:  "api/users.md",
			in:   "---\ntitle: Users\napi: GET /users\n---\nBody\n",
			want: "---\ntitle: Users\napi: GET /users\nlayout: ../../layouts/APILayout.astro\n---\nBody\n",
			how:  Appended,
		},
		{
			name: "explicit layout wins over api",
			rel:  "api/users.md",
			in:   "---\napi: GET /users\nlayout: ../../layouts/Custom.astro\n---\nBody\n",
			want: "---\napi: GET /users\nlayout: ../../layouts/Custom.astro\n---\nBody\n",
			how:  Unchanged,
		},
		{
			name: "crlf preserved",
			rel:  "win.md",
			in:   "---\r\ntitle: Win\r\n---\r\nBody\r\n",
			want: "---\r\ntitle: Win\r\nlayout: ../layouts/MarkdownLayout.astro\r\n---\r\nBody\r\n",
			how:  Appended,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, how, err := InjectLayout([]byte(tt.in), tt.rel)
			require.NoError(t, err)
			require.Equal(t, tt.how, how)
			require.Equal(t, tt.want, string(out))

			again, how, err := InjectLayout(out, tt.rel)
			require.NoError(t, err)
			require.Equal(t, Unchanged, how)
			require.Equal(t, string(out), string(again))
		})
	}
}

func TestInjectLayout_InvalidYAMLFallsBackToText(t *testing.T) {
	in := "---\ntitle: [oops\n---\nBody\n"

	out, how, err := InjectLayout([]byte(in), "broken.md")
	require.ErrorIs(t, err, ErrUnparsedFrontmatter)
	require.Equal(t, Appended, how)
	require.Equal(t, "---\ntitle: [oops\nlayout: ../layouts/MarkdownLayout.astro\n---\nBody\n", string(out))

	again, how, err := InjectLayout(out, "broken.md")
	require.ErrorIs(t, err, ErrUnparsedFrontmatter)
	require.Equal(t, Unchanged, how)
	require.Equal(t, string(out), string(again))
}

func TestInjectLayout_MissingClosingDelimiter(t *testing.T) {
	in := "---\ntitle: Draft\n# never closed\n"

	out, how, err := InjectLayout([]byte(in), "draft.md")
	require.ErrorIs(t, err, frontmatter.ErrMissingClosingDelimiter)
	require.Equal(t, Unchanged, how)
	require.Equal(t, in, string(out))
}
