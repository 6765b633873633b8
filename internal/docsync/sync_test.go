package docsync

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lito/internal/testutil"
)

func newWorkspace(t *testing.T) string {
	t.Helper()
	ws := t.TempDir()
	testutil.WriteFile(t, ws, "src/pages/index.astro", "<h1>Template</h1>")
	return ws
}

func TestSync_CopiesOnlyDocuments(t *testing.T) {
	docs, ws := t.TempDir(), newWorkspace(t)
	testutil.WriteFile(t, docs, "intro.md", "# Intro\n")
	testutil.WriteFile(t, docs, "guide/setup.mdx", "# Setup\n")
	testutil.WriteFile(t, docs, "guide/diagram.png", "png")
	testutil.WriteFile(t, docs, "notes.txt", "txt")
	testutil.WriteFile(t, docs, ".obsidian/workspace.md", "hidden")

	report, err := Sync(docs, ws)
	require.NoError(t, err)

	pages := filepath.Join(ws, ContentDir)
	require.FileExists(t, filepath.Join(pages, "intro.md"))
	require.FileExists(t, filepath.Join(pages, "guide", "setup.mdx"))
	require.NoFileExists(t, filepath.Join(pages, "guide", "diagram.png"))
	require.NoFileExists(t, filepath.Join(pages, "notes.txt"))
	require.NoDirExists(t, filepath.Join(pages, ".obsidian"))

	require.Len(t, report.Pages, 2)
	require.Equal(t, "guide/setup.mdx", report.Pages[0].Path)
	require.Equal(t, "intro.md", report.Pages[1].Path)
	require.Contains(t, testutil.ReadFile(t, pages, "guide/setup.mdx"), "layout: ../../layouts/MarkdownLayout.astro")
}

func TestSync_IsIdempotent(t *testing.T) {
	docs, ws := t.TempDir(), newWorkspace(t)
	testutil.WriteFile(t, docs, "intro.md", "# Intro\n")
	testutil.WriteFile(t, docs, "guide/setup.md", "---\ntitle: Setup\n---\n# Setup\n")

	first, err := Sync(docs, ws)
	require.NoError(t, err)
	intro := testutil.ReadFile(t, ws, "src/pages/intro.md")
	setup := testutil.ReadFile(t, ws, "src/pages/guide/setup.md")

	second, err := Sync(docs, ws)
	require.NoError(t, err)
	require.Equal(t, intro, testutil.ReadFile(t, ws, "src/pages/intro.md"))
	require.Equal(t, setup, testutil.ReadFile(t, ws, "src/pages/guide/setup.md"))
	require.Empty(t, second.Changed(first.Fingerprints()))
}

func TestSync_UserIndexReplacesTemplateLanding(t *testing.T) {
	docs, ws := t.TempDir(), newWorkspace(t)
	testutil.WriteFile(t, docs, "index.md", "# Welcome\n")

	report, err := Sync(docs, ws)
	require.NoError(t, err)
	require.True(t, report.LandingReplaced)
	require.NoFileExists(t, filepath.Join(ws, ContentDir, "index.astro"))
	require.FileExists(t, filepath.Join(ws, ContentDir, "index.md"))
}

func TestSync_TemplateLandingKeptWithoutUserIndex(t *testing.T) {
	docs, ws := t.TempDir(), newWorkspace(t)
	testutil.WriteFile(t, docs, "guide/intro.md", "# Intro\n")

	report, err := Sync(docs, ws)
	require.NoError(t, err)
	require.False(t, report.LandingReplaced)
	require.FileExists(t, filepath.Join(ws, ContentDir, "index.astro"))
}

func TestSync_WarnsOnUnclosedFrontmatter(t *testing.T) {
	docs, ws := t.TempDir(), newWorkspace(t)
	testutil.WriteFile(t, docs, "draft.md", "---\ntitle: Draft\n")

	report, err := Sync(docs, ws)
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	require.Equal(t, "---\ntitle: Draft\n", testutil.ReadFile(t, ws, "src/pages/draft.md"))
}

func TestSync_MissingDocsDirIsFatal(t *testing.T) {
	_, err := Sync(filepath.Join(t.TempDir(), "absent"), newWorkspace(t))
	require.Error(t, err)
}

func TestReport_Changed(t *testing.T) {
	docs, ws := t.TempDir(), newWorkspace(t)
	testutil.WriteFile(t, docs, "a.md", "# A\n")
	testutil.WriteFile(t, docs, "b.md", "# B\n")

	first, err := Sync(docs, ws)
	require.NoError(t, err)
	require.Equal(t, []string{"a.md", "b.md"}, first.Changed(nil))

	testutil.WriteFile(t, docs, "b.md", "# B, revised\n")
	testutil.WriteFile(t, docs, "c.md", "# C\n")
	second, err := Sync(docs, ws)
	require.NoError(t, err)
	require.Equal(t, []string{"b.md", "c.md"}, second.Changed(first.Fingerprints()))

	prev := second.Fingerprints()
	prev["gone.md"] = "x"
	require.Equal(t, []string{"gone.md"}, second.Changed(prev))
}
