package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lito/internal/testutil"
)

func TestCopyTree_CopiesNestedFiles(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	testutil.WriteFile(t, src, "a.txt", "a")
	testutil.WriteFile(t, src, "sub/deeper/b.txt", "b")

	n, err := CopyTree(src, dst, CopyOptions{Overwrite: true})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "a", testutil.ReadFile(t, dst, "a.txt"))
	require.Equal(t, "b", testutil.ReadFile(t, dst, "sub/deeper/b.txt"))
}

func TestCopyTree_OverwriteSemantics(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	testutil.WriteFile(t, src, "a.txt", "new")
	testutil.WriteFile(t, dst, "a.txt", "old")

	_, err := CopyTree(src, dst, CopyOptions{})
	require.NoError(t, err)
	require.Equal(t, "old", testutil.ReadFile(t, dst, "a.txt"))

	_, err = CopyTree(src, dst, CopyOptions{Overwrite: true})
	require.NoError(t, err)
	require.Equal(t, "new", testutil.ReadFile(t, dst, "a.txt"))
}

func TestCopyTree_FilterSkipsSubtrees(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	testutil.WriteFile(t, src, "keep.md", "k")
	testutil.WriteFile(t, src, "skip.png", "s")
	testutil.WriteFile(t, src, "node_modules/pkg/index.js", "x")

	filter := func(rel string, d fs.DirEntry) bool {
		if d.IsDir() {
			return d.Name() != "node_modules"
		}
		return strings.HasSuffix(rel, ".md")
	}
	n, err := CopyTree(src, dst, CopyOptions{Filter: filter, Overwrite: true})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.FileExists(t, filepath.Join(dst, "keep.md"))
	require.NoFileExists(t, filepath.Join(dst, "skip.png"))
	require.NoDirExists(t, filepath.Join(dst, "node_modules"))
}

func TestCopyTree_MissingSource(t *testing.T) {
	_, err := CopyTree(filepath.Join(t.TempDir(), "absent"), t.TempDir(), CopyOptions{})
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestExcludeNames_IsExact(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	testutil.WriteFile(t, src, ".astro/cache.json", "c")
	testutil.WriteFile(t, src, "src/pages/index.astro", "<h1/>")
	testutil.WriteFile(t, src, "package-lock.json", "{}")

	_, err := CopyTree(src, dst, CopyOptions{Filter: ExcludeNames(".astro", "package-lock.json"), Overwrite: true})
	require.NoError(t, err)
	require.NoDirExists(t, filepath.Join(dst, ".astro"))
	require.NoFileExists(t, filepath.Join(dst, "package-lock.json"))
	require.FileExists(t, filepath.Join(dst, "src/pages/index.astro"))
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}

func TestCopyTree_FollowsSymlinks(t *testing.T) {
	src, shared, dst := t.TempDir(), t.TempDir(), t.TempDir()
	testutil.WriteFile(t, shared, "snippet.md", "shared")
	testutil.WriteFile(t, shared, "nested/deep.md", "deep")
	testutil.WriteFile(t, src, "real.md", "real")
	symlink(t, filepath.Join(shared, "snippet.md"), filepath.Join(src, "linked.md"))
	symlink(t, shared, filepath.Join(src, "shared"))

	n, err := CopyTree(src, dst, CopyOptions{Filter: ExcludeNames("skip"), Overwrite: true})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "shared", testutil.ReadFile(t, dst, "linked.md"))
	require.Equal(t, "deep", testutil.ReadFile(t, dst, "shared/nested/deep.md"))

	info, err := os.Lstat(filepath.Join(dst, "linked.md"))
	require.NoError(t, err)
	require.True(t, info.Mode().IsRegular(), "content is copied, not the link")
}

func TestCopyTree_SymlinkFilterSeesTarget(t *testing.T) {
	src, shared, dst := t.TempDir(), t.TempDir(), t.TempDir()
	testutil.WriteFile(t, shared, "page.md", "p")
	symlink(t, shared, filepath.Join(src, "guide"))

	filter := func(rel string, d fs.DirEntry) bool {
		return d.IsDir() || strings.HasSuffix(rel, ".md")
	}
	n, err := CopyTree(src, dst, CopyOptions{Filter: filter, Overwrite: true})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.FileExists(t, filepath.Join(dst, "guide", "page.md"))
}

func TestCopyTree_SkipsCyclesAndDanglingLinks(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	testutil.WriteFile(t, src, "sub/a.md", "a")
	symlink(t, src, filepath.Join(src, "sub", "loop"))
	symlink(t, filepath.Join(src, "missing.md"), filepath.Join(src, "dangling.md"))

	n, err := CopyTree(src, dst, CopyOptions{Overwrite: true})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.NoFileExists(t, filepath.Join(dst, "dangling.md"))
	require.NoDirExists(t, filepath.Join(dst, "sub", "loop"))
}
