package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/fsutil"
	"git.home.luguber.info/inful/lito/internal/logfields"
)

// DirName is the workspace directory created under the base directory.
const DirName = ".lito"

// Fixed locations inside a scaffolded workspace.
const (
	ContentDir     = "src/pages"
	SiteConfigFile = "docs-config.json"
	StylesheetFile = "src/styles/generated-theme.css"
	BuildConfig    = "astro.config.mjs"
	OutputDir      = "dist"
	StateDir       = ".lito"
)

// excluded holds exact entry names never copied out of a template.
var excluded = []string{
	"node_modules",
	".pnpm-store",
	".yarn",
	"pnpm-lock.yaml",
	"bun.lock",
	"bun.lockb",
	"package-lock.json",
	"yarn.lock",
	".astro",
	".git",
}

// Manager handles the fixed workspace directory.
type Manager struct {
	path string
}

// NewManager returns a Manager for the workspace under base. The workspace is
// always the DirName child of base, so emptying it never touches base's other
// entries. An empty base selects the OS temp directory.
func NewManager(base string) *Manager {
	if base == "" {
		base = os.TempDir()
	}
	path := filepath.Join(base, DirName)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Manager{path: path}
}

// Path returns the workspace directory. It never changes for a Manager.
func (m *Manager) Path() string {
	return m.path
}

// Join resolves a workspace-relative path.
func (m *Manager) Join(rel string) string {
	return filepath.Join(m.path, filepath.FromSlash(rel))
}

// Scaffold ensures the workspace exists, empties it, and copies templateDir in.
// It refuses to run when templateDir or any of keep (docs, user config, output
// destinations) lies inside the workspace, or when the workspace lies inside
// templateDir.
func (m *Manager) Scaffold(templateDir string, keep ...string) (string, error) {
	if err := m.checkOverlap(templateDir, keep); err != nil {
		return "", err
	}
	info, err := os.Stat(templateDir)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "template directory not readable").
			WithContext("path", templateDir).Build()
	}
	if !info.IsDir() {
		return "", ferrors.FileSystemError("template path is not a directory").
			WithContext("path", templateDir).Build()
	}

	if err := os.MkdirAll(m.path, 0o750); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "create workspace").
			WithContext("path", m.path).Build()
	}
	if err := m.empty(); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "empty workspace").
			WithContext("path", m.path).Build()
	}

	n, err := fsutil.CopyTree(templateDir, m.path, fsutil.CopyOptions{
		Filter:    fsutil.ExcludeNames(excluded...),
		Overwrite: true,
	})
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "copy template into workspace").
			WithContext("path", templateDir).Build()
	}
	slog.Info("Scaffolded workspace",
		logfields.Workspace(m.path),
		logfields.Template(templateDir),
		logfields.Count(n))
	return m.path, nil
}

func (m *Manager) checkOverlap(templateDir string, keep []string) error {
	for _, dir := range append([]string{templateDir}, keep...) {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve path").
				WithContext("path", dir).Build()
		}
		if fsutil.Within(m.path, abs) {
			return ferrors.ValidationError("path lies inside the workspace, which is emptied on every run").
				WithContext("path", abs).
				WithContext("workspace", m.path).
				Build()
		}
	}
	if abs, err := filepath.Abs(templateDir); err == nil && templateDir != "" && fsutil.Within(abs, m.path) {
		return ferrors.ValidationError("workspace lies inside the template directory").
			WithContext("path", abs).
			WithContext("workspace", m.path).
			Build()
	}
	return nil
}

// empty removes every child of the workspace, keeping the directory itself.
func (m *Manager) empty() error {
	entries, err := os.ReadDir(m.path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(m.path, e.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Cleanup removes the workspace. Failures are logged and swallowed.
func (m *Manager) Cleanup() {
	if err := os.RemoveAll(m.path); err != nil {
		slog.Debug("Workspace cleanup failed", logfields.Workspace(m.path), logfields.Error(err))
		return
	}
	slog.Debug("Removed workspace", logfields.Workspace(m.path))
}

// StatePath resolves a path inside the pipeline's internal state directory.
func (m *Manager) StatePath(name string) string {
	return filepath.Join(m.path, StateDir, name)
}
