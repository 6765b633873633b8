package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/testutil"
)

func TestCollect(t *testing.T) {
	ws := t.TempDir()
	testutil.WriteFile(t, ws, "dist/index.html", "<html>new</html>")
	testutil.WriteFile(t, ws, "dist/_astro/app.js", "js")
	testutil.WriteFile(t, ws, "dist/robots.txt", "User-agent: *")

	dest := filepath.Join(t.TempDir(), "site", "public")
	testutil.WriteFile(t, dest, "index.html", "<html>old</html>")
	testutil.WriteFile(t, dest, "keep.txt", "untouched")

	n, err := Collect(ws, dest)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	data, err := os.ReadFile(filepath.Join(dest, "index.html"))
	require.NoError(t, err)
	require.Equal(t, "<html>new</html>", string(data))
	require.FileExists(t, filepath.Join(dest, "_astro", "app.js"))
	require.FileExists(t, filepath.Join(dest, "robots.txt"))
	require.FileExists(t, filepath.Join(dest, "keep.txt"))
}

func TestCollect_MissingOutput(t *testing.T) {
	_, err := Collect(t.TempDir(), t.TempDir())
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestExport_SkipsStateAndDependencies(t *testing.T) {
	ws := t.TempDir()
	testutil.WriteFile(t, ws, "package.json", "{}")
	testutil.WriteFile(t, ws, "src/pages/index.md", "# Home")
	testutil.WriteFile(t, ws, ".lito/docs-config.default.json", "{}")
	testutil.WriteFile(t, ws, "node_modules/astro/index.js", "")
	testutil.WriteFile(t, ws, "dist/index.html", "")
	testutil.WriteFile(t, ws, "src/dist/keep.md", "nested dist is project source")

	dest := filepath.Join(t.TempDir(), "project")
	n, err := Export(ws, dest)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.FileExists(t, filepath.Join(dest, "package.json"))
	require.FileExists(t, filepath.Join(dest, "src", "pages", "index.md"))
	require.FileExists(t, filepath.Join(dest, "src", "dist", "keep.md"))
	require.NoDirExists(t, filepath.Join(dest, ".lito"))
	require.NoDirExists(t, filepath.Join(dest, "node_modules"))
	require.NoDirExists(t, filepath.Join(dest, "dist"))
}
