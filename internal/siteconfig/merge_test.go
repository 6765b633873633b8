package siteconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMerge_ListsReplace(t *testing.T) {
	target := map[string]any{"a": map[string]any{"sidebar": []any{"Y", "Z"}}}
	source := map[string]any{"a": map[string]any{"sidebar": []any{"X"}}}

	out := Merge(target, source)
	require.Equal(t, []any{"X"}, out["a"].(map[string]any)["sidebar"])
}

func TestMerge_ObjectsRecurseScalarsOverwrite(t *testing.T) {
	target := map[string]any{
		"metadata": map[string]any{"name": "Template", "description": "Default"},
		"theme":    "dark",
	}
	source := map[string]any{
		"metadata": map[string]any{"name": "Mine"},
		"theme":    map[string]any{"primaryColor": "#fff"},
	}

	out := Merge(target, source)
	require.Equal(t, map[string]any{"name": "Mine", "description": "Default"}, out["metadata"])
	require.Equal(t, map[string]any{"primaryColor": "#fff"}, out["theme"])
}

func TestMerge_ObjectOverNonObjectAndBack(t *testing.T) {
	out := Merge(map[string]any{"logo": map[string]any{"src": "a.svg"}}, map[string]any{"logo": "b.svg"})
	require.Equal(t, "b.svg", out["logo"])
}

func TestMerge_Idempotent(t *testing.T) {
	doc := map[string]any{
		"metadata":   map[string]any{"name": "Docs"},
		"navigation": map[string]any{"sidebar": []any{map[string]any{"label": "A"}}},
	}
	require.Equal(t, doc, Merge(doc, doc))

	user := map[string]any{"metadata": map[string]any{"url": "https://x.dev"}}
	once := Merge(doc, user)
	require.Equal(t, once, Merge(once, user))
}

func TestMerge_DoesNotAliasInputs(t *testing.T) {
	target := map[string]any{"branding": map[string]any{"colors": map[string]any{"primary": "#000"}}}
	source := map[string]any{"list": []any{"a"}}

	out := Merge(target, source)
	out["branding"].(map[string]any)["colors"].(map[string]any)["primary"] = "#fff"
	out["list"].([]any)[0] = "b"

	require.Equal(t, "#000", target["branding"].(map[string]any)["colors"].(map[string]any)["primary"])
	require.Equal(t, "a", source["list"].([]any)[0])
}

func TestOverrides_DualWritesColors(t *testing.T) {
	doc := map[string]any{"theme": map[string]any{"mode": "auto"}}
	Overrides{
		Name:         "Acme",
		Description:  "Acme docs",
		PrimaryColor: "#112233",
		AccentColor:  "#445566",
		Favicon:      "/favicon.svg",
		Logo:         "/logo.svg",
	}.Apply(doc)

	require.Equal(t, "Acme", lookupString(doc, "metadata", "name"))
	require.Equal(t, "Acme docs", lookupString(doc, "metadata", "description"))
	require.Equal(t, "auto", lookupString(doc, "theme", "mode"))
	require.Equal(t, "#112233", lookupString(doc, "theme", "primaryColor"))
	require.Equal(t, "#112233", lookupString(doc, "branding", "colors", "primary"))
	require.Equal(t, "#445566", lookupString(doc, "theme", "accentColor"))
	require.Equal(t, "#445566", lookupString(doc, "branding", "colors", "accent"))
	require.Equal(t, "/favicon.svg", lookupString(doc, "branding", "favicon"))
	require.Equal(t, "/logo.svg", lookupString(doc, "branding", "logo", "src"))
}

func TestOverrides_EmptyLeavesDocument(t *testing.T) {
	doc := map[string]any{"metadata": map[string]any{"name": "Keep"}}
	Overrides{}.Apply(doc)
	require.Equal(t, map[string]any{"metadata": map[string]any{"name": "Keep"}}, doc)
}
