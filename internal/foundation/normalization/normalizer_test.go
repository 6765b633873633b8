package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type mode string

const (
	modeStatic mode = "static"
	modeServer mode = "server"
)

func newModeNormalizer() *Normalizer[mode] {
	return NewNormalizer(map[string]mode{
		"static": modeStatic,
		"Server": modeServer,
		"ssr":    modeServer,
	}, modeStatic)
}

func TestNormalize(t *testing.T) {
	n := newModeNormalizer()

	for input, want := range map[string]mode{
		"static":   modeStatic,
		"SERVER":   modeServer,
		"  ssr ":   modeServer,
		"edge":     modeStatic,
		"":         modeStatic,
		"\tStatic": modeStatic,
	} {
		require.Equal(t, want, n.Normalize(input), "input %q", input)
	}
}

func TestNormalizeWithError(t *testing.T) {
	n := newModeNormalizer()

	_, ok := n.Lookup("hybrid")
	require.False(t, ok)

	_, err := n.NormalizeWithError("hybrid")
	require.EqualError(t, err, `invalid value "hybrid" (want one of: server, ssr, static)`)

	v, err := n.NormalizeWithError("Static")
	require.NoError(t, err)
	require.Equal(t, modeStatic, v)
}

func TestValidKeys_ReturnsCopy(t *testing.T) {
	n := newModeNormalizer()
	keys := n.ValidKeys()
	keys[0] = "mutated"
	require.Equal(t, []string{"server", "ssr", "static"}, n.ValidKeys())
}
