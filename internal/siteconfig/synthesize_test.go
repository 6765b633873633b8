package siteconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/testutil"
	"git.home.luguber.info/inful/lito/internal/workspace"
)

const defaultConfig = `{
  "metadata": {"name": "Lito", "description": "Template docs"},
  "theme": {"primaryColor": "#000000"},
  "branding": {"favicon": "/favicon.ico"},
  "navigation": {"sidebar": []},
  "footer": {"links": [1, 2.50]}
}`

const astroConfig = "import { defineConfig } from 'astro/config';\n\nexport default defineConfig({\n  integrations: [],\n});\n"

func newWorkspace(t *testing.T) *workspace.Manager {
	t.Helper()
	ws := workspace.NewManager(t.TempDir())
	testutil.WriteFile(t, ws.Path(), workspace.SiteConfigFile, defaultConfig)
	testutil.WriteFile(t, ws.Path(), "astro.config.mjs", astroConfig)
	return ws
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	doc, err := Load(path)
	require.NoError(t, err)
	return doc
}

func TestSynthesize_DerivesSidebarAndPatchesBase(t *testing.T) {
	ws := newWorkspace(t)
	docs := t.TempDir()
	testutil.WriteFile(t, docs, "index.md", "")
	testutil.WriteFile(t, docs, "guide/intro.md", "")

	res, err := Synthesize(ws, docs, Input{
		BaseURL:   "/docs",
		Overrides: Overrides{PrimaryColor: "#112233"},
	})
	require.NoError(t, err)
	require.Equal(t, []NavGroup{{Label: "Guide", Items: []NavItem{{Label: "Intro", Slug: "guide/intro"}}}}, res.Sidebar)

	doc := readJSON(t, ws.Join(workspace.SiteConfigFile))
	require.Equal(t, "#112233", lookupString(doc, "theme", "primaryColor"))
	require.Equal(t, "#112233", lookupString(doc, "branding", "colors", "primary"))
	require.Equal(t, "/favicon.ico", lookupString(doc, "branding", "favicon"))

	raw, err := os.ReadFile(ws.Join(workspace.SiteConfigFile))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"links": [
      1,
      2.50
    ]`)

	css, err := os.ReadFile(ws.Join(workspace.StylesheetFile))
	require.NoError(t, err)
	require.Equal(t, ":root {\n  --lito-color-primary: #112233;\n}\n", string(css))

	astro, err := os.ReadFile(ws.Join("astro.config.mjs"))
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(astro), "base: '/docs',"))
	require.NotContains(t, string(astro), "site:")
}

func TestSynthesize_RerunRederivesFromPristineDefault(t *testing.T) {
	ws := newWorkspace(t)
	docs := t.TempDir()
	testutil.WriteFile(t, docs, "guide/intro.md", "")

	_, err := Synthesize(ws, docs, Input{BaseURL: "/docs"})
	require.NoError(t, err)

	testutil.WriteFile(t, docs, "guide/setup.md", "")
	res, err := Synthesize(ws, docs, Input{BaseURL: "/docs"})
	require.NoError(t, err)
	require.Len(t, res.Sidebar, 1)
	require.Len(t, res.Sidebar[0].Items, 2)
	require.False(t, res.Patch.Changed())

	astro, err := os.ReadFile(ws.Join("astro.config.mjs"))
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(astro), "base:"))
}

func TestSynthesize_UserConfigSidebarWins(t *testing.T) {
	ws := newWorkspace(t)
	docs := t.TempDir()
	testutil.WriteFile(t, docs, "guide/intro.md", "")
	userPath := filepath.Join(docs, "docs-config.json")
	testutil.WriteFile(t, docs, "docs-config.json", `{
  "metadata": {"name": "Mine", "url": "https://docs.example.com"},
  "navigation": {"sidebar": [{"label": "Custom", "items": []}]}
}`)

	res, err := Synthesize(ws, docs, Input{UserConfigPath: userPath})
	require.NoError(t, err)
	require.True(t, res.UserConfigUsed)
	require.Nil(t, res.Sidebar)

	doc := readJSON(t, ws.Join(workspace.SiteConfigFile))
	require.Equal(t, "Mine", lookupString(doc, "metadata", "name"))
	require.Equal(t, "Template docs", lookupString(doc, "metadata", "description"))
	sidebar := doc["navigation"].(map[string]any)["sidebar"].([]any)
	require.Len(t, sidebar, 1)

	astro, err := os.ReadFile(ws.Join("astro.config.mjs"))
	require.NoError(t, err)
	require.Contains(t, string(astro), "site: 'https://docs.example.com',")
	require.NotContains(t, string(astro), "base:")

	css, err := os.ReadFile(ws.Join(workspace.StylesheetFile))
	require.NoError(t, err)
	require.Empty(t, css)
}

func TestSynthesize_MissingUserConfigIsIgnored(t *testing.T) {
	ws := newWorkspace(t)
	res, err := Synthesize(ws, t.TempDir(), Input{UserConfigPath: filepath.Join(t.TempDir(), "nope.json")})
	require.NoError(t, err)
	require.False(t, res.UserConfigUsed)
}

func TestSynthesize_MalformedUserConfig(t *testing.T) {
	ws := newWorkspace(t)
	docs := t.TempDir()
	testutil.WriteFile(t, docs, "docs-config.json", `{"metadata": `)

	_, err := Synthesize(ws, docs, Input{UserConfigPath: filepath.Join(docs, "docs-config.json")})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfigParse))
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	path, _ := ce.Fields().String("path")
	require.Equal(t, filepath.Join(docs, "docs-config.json"), path)
}

func TestSynthesize_MalformedDefault(t *testing.T) {
	ws := newWorkspace(t)
	testutil.WriteFile(t, ws.Path(), workspace.SiteConfigFile, `[1, 2]`)

	_, err := Synthesize(ws, t.TempDir(), Input{})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfigParse))
}

func TestSynthesize_NavigationFailureIsNonFatal(t *testing.T) {
	ws := newWorkspace(t)

	res, err := Synthesize(ws, filepath.Join(t.TempDir(), "absent"), Input{})
	require.NoError(t, err)
	require.Empty(t, res.Sidebar)
	require.Len(t, res.Warnings, 1)
}

func TestSynthesize_MissingAnchorWarns(t *testing.T) {
	ws := newWorkspace(t)
	testutil.WriteFile(t, ws.Path(), "astro.config.mjs", "export default {};\n")

	res, err := Synthesize(ws, t.TempDir(), Input{BaseURL: "/docs"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)
}

func TestSitePatch(t *testing.T) {
	require.True(t, SitePatch("/", map[string]any{}).Empty())
	require.True(t, SitePatch("", map[string]any{}).Empty())
	p := SitePatch("/v2", map[string]any{"metadata": map[string]any{"url": "https://x.dev"}})
	require.Len(t, p.Fields, 2)
	require.Equal(t, "base", p.Fields[0].Key)
	require.Equal(t, "'https://x.dev'", p.Fields[1].Expr)
}

func TestSynthesize_NestedSiteOptionDoesNotSuppressBase(t *testing.T) {
	ws := newWorkspace(t)
	testutil.WriteFile(t, ws.Path(), "astro.config.mjs", "export default defineConfig({\n  integrations: [sitemap({\n    site: 'https://other.dev',\n    base: '/x',\n  })],\n});\n")

	res, err := Synthesize(ws, t.TempDir(), Input{BaseURL: "/docs"})
	require.NoError(t, err)
	require.Equal(t, []string{"base"}, res.Patch.Fields)
	require.Empty(t, res.Warnings)

	astro, err := os.ReadFile(ws.Join("astro.config.mjs"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(astro), "export default defineConfig({\n  base: '/docs',\n"))
}

func TestSynthesize_TemplateBaseIsKeptAndReported(t *testing.T) {
	ws := newWorkspace(t)
	testutil.WriteFile(t, ws.Path(), "astro.config.mjs", "export default defineConfig({\n  base: '/fixed',\n});\n")

	res, err := Synthesize(ws, t.TempDir(), Input{BaseURL: "/docs"})
	require.NoError(t, err)
	require.Empty(t, res.Patch.Fields)
	require.Equal(t, []string{"base"}, res.Patch.Conflicts)
	require.Len(t, res.Warnings, 1)
	require.Contains(t, res.Warnings[0], "base")

	again, err := Synthesize(ws, t.TempDir(), Input{BaseURL: "/fixed"})
	require.NoError(t, err)
	require.Empty(t, again.Patch.Conflicts)
	require.Empty(t, again.Warnings)
}
