package siteconfig

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
)

// GettingStartedLabel names the synthetic group holding root-level pages.
const GettingStartedLabel = "Getting Started"

// NavItem is a sidebar leaf.
type NavItem struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// NavGroup is a labelled list of sidebar items.
type NavGroup struct {
	Label string    `json:"label"`
	Icon  string    `json:"icon,omitempty"`
	Items []NavItem `json:"items"`
}

// FormatLabel turns a file or directory stem into a label: split on
// hyphens, first letter of each word upper-cased.
func FormatLabel(stem string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	words := strings.Split(stem, "-")
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

func isPage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".mdx"
}

func isIndex(name string) bool {
	return strings.TrimSuffix(name, filepath.Ext(name)) == "index"
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// DeriveNavigation builds the sidebar from the top two levels of docsDir.
//
// Root pages form a "Getting Started" group, listed first. Each immediate
// subdirectory with at least one non-index page becomes a group; groups
// follow in label order. Index pages are landing pages and never listed.
func DeriveNavigation(docsDir string) ([]NavGroup, error) {
	entries, err := os.ReadDir(docsDir)
	if err != nil {
		return nil, navError(err, docsDir)
	}
	coll := collate.New(language.Und)

	var root []NavItem
	var groups []NavGroup
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !e.IsDir() {
			if isPage(name) && !isIndex(name) {
				root = append(root, NavItem{Label: FormatLabel(stem(name)), Slug: stem(name)})
			}
			continue
		}

		dir := filepath.Join(docsDir, name)
		children, err := os.ReadDir(dir)
		if err != nil {
			return nil, navError(err, dir)
		}
		var items []NavItem
		for _, c := range children {
			if c.IsDir() || !isPage(c.Name()) || isIndex(c.Name()) {
				continue
			}
			items = append(items, NavItem{
				Label: FormatLabel(stem(c.Name())),
				Slug:  name + "/" + stem(c.Name()),
			})
		}
		if len(items) == 0 {
			continue
		}
		sortItems(coll, items)
		groups = append(groups, NavGroup{Label: FormatLabel(name), Items: items})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return less(coll, groups[i].Label, groups[j].Label)
	})

	sidebar := make([]NavGroup, 0, len(groups)+1)
	if len(root) > 0 {
		sortItems(coll, root)
		sidebar = append(sidebar, NavGroup{Label: GettingStartedLabel, Icon: "rocket", Items: root})
	}
	return append(sidebar, groups...), nil
}

func sortItems(coll *collate.Collator, items []NavItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if c := coll.CompareString(items[i].Label, items[j].Label); c != 0 {
			return c < 0
		}
		return items[i].Slug < items[j].Slug
	})
}

func less(coll *collate.Collator, a, b string) bool {
	if c := coll.CompareString(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

func navError(err error, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryNavigation, "derive navigation").
		Warning().
		WithContext("path", path).
		Build()
}

// sidebarEmpty reports whether doc has no sidebar entries.
func sidebarEmpty(doc map[string]any) bool {
	nav, ok := doc["navigation"].(map[string]any)
	if !ok {
		return true
	}
	switch s := nav["sidebar"].(type) {
	case []any:
		return len(s) == 0
	case []NavGroup:
		return len(s) == 0
	default:
		return true
	}
}
