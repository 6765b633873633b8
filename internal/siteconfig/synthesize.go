package siteconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/lito/internal/buildconfig"
	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/fsutil"
	"git.home.luguber.info/inful/lito/internal/logfields"
	"git.home.luguber.info/inful/lito/internal/workspace"
)

// DefaultSnapshot is the state file holding the template's pristine config.
const DefaultSnapshot = "docs-config.default.json"

// Input configures one synthesis.
type Input struct {
	// UserConfigPath is merged over the template default when the file exists.
	UserConfigPath string
	// BaseURL is written as the build's base path unless empty or "/".
	BaseURL   string
	Overrides Overrides
}

// Result describes a synthesis.
type Result struct {
	Config         map[string]any
	Sidebar        []NavGroup // set when navigation was derived
	UserConfigUsed bool
	Patch          buildconfig.Result
	Warnings       []string
}

// Synthesize writes the merged site configuration, the theme stylesheet, and
// the base/site build fields into the workspace.
//
// The template's docs-config.json is snapshotted on first use and every
// later run starts from that snapshot, so re-runs in dev mode re-derive the
// sidebar from the current docs tree instead of reusing the previous result.
func Synthesize(ws *workspace.Manager, docsDir string, in Input) (*Result, error) {
	doc, err := loadDefault(ws)
	if err != nil {
		return nil, err
	}
	res := &Result{}

	if in.UserConfigPath != "" {
		if _, statErr := os.Stat(in.UserConfigPath); statErr == nil {
			user, err := Load(in.UserConfigPath)
			if err != nil {
				return nil, err
			}
			doc = Merge(doc, user)
			res.UserConfigUsed = true
			slog.Debug("Merged user site configuration", logfields.Path(in.UserConfigPath))
		} else if !errors.Is(statErr, fs.ErrNotExist) {
			return nil, ferrors.WrapError(statErr, ferrors.CategoryFileSystem, "stat user site configuration").
				WithContext("path", in.UserConfigPath).Build()
		}
	}

	in.Overrides.Apply(doc)

	if sidebarEmpty(doc) {
		sidebar, err := DeriveNavigation(docsDir)
		if err != nil {
			slog.Warn("Could not derive navigation, continuing with an empty sidebar",
				logfields.Path(docsDir), logfields.Error(err))
			res.Warnings = append(res.Warnings, err.Error())
			sidebar = []NavGroup{}
		}
		object(doc, "navigation")["sidebar"] = sidebar
		res.Sidebar = sidebar
	}

	if err := Save(ws.Join(workspace.SiteConfigFile), doc); err != nil {
		return nil, err
	}
	if err := writeStylesheet(ws.Join(workspace.StylesheetFile), Stylesheet(doc)); err != nil {
		return nil, err
	}

	patch, err := buildconfig.ApplyFile(ws.Join(buildconfig.FileName), SitePatch(in.BaseURL, doc))
	switch {
	case errors.Is(err, buildconfig.ErrAnchorNotFound):
		slog.Warn("Build configuration has no defineConfig anchor, base/site not set", logfields.Error(err))
		res.Warnings = append(res.Warnings, err.Error())
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "patch build configuration").
			WithContext("path", ws.Join(buildconfig.FileName)).Build()
	}
	for _, key := range patch.Conflicts {
		msg := fmt.Sprintf("build configuration already sets %s, site configuration value not applied", key)
		slog.Warn("Build configuration field kept", slog.String("field", key))
		res.Warnings = append(res.Warnings, msg)
	}
	res.Patch = patch
	res.Config = doc

	slog.Info("Synthesized site configuration",
		logfields.Workspace(ws.Path()),
		slog.Bool("derived_sidebar", res.Sidebar != nil))
	return res, nil
}

// SitePatch returns the base and site fields the merged document calls for.
func SitePatch(baseURL string, doc map[string]any) buildconfig.Patch {
	var p buildconfig.Patch
	if baseURL != "" && baseURL != "/" {
		p.Fields = append(p.Fields, buildconfig.Field{Key: "base", Expr: buildconfig.Quote(baseURL)})
	}
	if site := lookupString(doc, "metadata", "url"); site != "" {
		p.Fields = append(p.Fields, buildconfig.Field{Key: "site", Expr: buildconfig.Quote(site)})
	}
	return p
}

// loadDefault returns the template default, snapshotting it on first call.
func loadDefault(ws *workspace.Manager) (map[string]any, error) {
	snapshot := ws.StatePath(DefaultSnapshot)
	if _, err := os.Stat(snapshot); err == nil {
		return Load(snapshot)
	}
	shipped := ws.Join(workspace.SiteConfigFile)
	doc, err := Load(shipped)
	if err != nil {
		return nil, err
	}
	if err := fsutil.CopyFile(shipped, snapshot); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "snapshot template site configuration").
			WithContext("path", snapshot).Build()
	}
	return doc, nil
}

func writeStylesheet(path, css string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create styles directory").
			WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, []byte(css), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write theme stylesheet").
			WithContext("path", path).Build()
	}
	return nil
}
