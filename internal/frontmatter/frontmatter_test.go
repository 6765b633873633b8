package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		raw    string
		body   string
		had    bool
		wantNL string
	}{
		{"no frontmatter", "# Title\n\nHello\n", "", "# Title\n\nHello\n", false, "\n"},
		{"yaml block", "---\nkey: value\n---\n# Title\n", "key: value\n", "# Title\n", true, "\n"},
		{"empty block", "---\n---\n# Title\n", "", "# Title\n", true, "\n"},
		{"crlf", "---\r\nkey: value\r\n---\r\n# Title\r\n", "key: value\r\n", "# Title\r\n", true, "\r\n"},
		{"closing at eof", "---\ntitle: x\n---", "title: x\n", "", true, "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, body, had, style, err := Split([]byte(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.had, had)
			require.Equal(t, tt.raw, string(raw))
			require.Equal(t, tt.body, string(body))
			require.Equal(t, tt.wantNL, style.Newline)
		})
	}
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, _, had, _, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestJoin_RoundTrip(t *testing.T) {
	cases := []string{
		"# Title\n\nHello\n",
		"---\nkey: value\n---\n# Title\n",
		"---\n---\n# Title\n",
		"---\r\nkey: value\r\n---\r\n# Title\r\n",
	}
	for _, input := range cases {
		raw, body, had, style, err := Split([]byte(input))
		require.NoError(t, err)
		require.Equal(t, input, string(Join(raw, body, had, style)))
	}
}
