package docsync

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/frontmatter"
	"git.home.luguber.info/inful/lito/internal/fsutil"
	"git.home.luguber.info/inful/lito/internal/logfields"
	"git.home.luguber.info/inful/lito/internal/util/sets"
	"git.home.luguber.info/inful/lito/internal/workspace"
)

// ContentDir is the content root inside a workspace.
const ContentDir = workspace.ContentDir

var (
	userIndexNames = []string{"index.md", "index.mdx"}
	docExtensions  = sets.New(".md", ".mdx")
)

const templateIndex = "index.astro"

// IsDocument reports whether name is a Markdown or MDX file.
func IsDocument(name string) bool {
	return docExtensions.Has(strings.ToLower(filepath.Ext(name)))
}

// copyFilter admits documents and directories. Hidden directories are
// skipped along with their contents.
func copyFilter(_ string, d fs.DirEntry) bool {
	if d.IsDir() {
		return !strings.HasPrefix(d.Name(), ".")
	}
	return IsDocument(d.Name())
}

// Sync copies docsDir into the workspace content tree, injects layouts, and
// applies landing-page precedence. Any file-system failure aborts the sync.
func Sync(docsDir, workspaceDir string) (*Report, error) {
	target := filepath.Join(workspaceDir, filepath.FromSlash(ContentDir))
	if err := os.MkdirAll(target, 0o750); err != nil {
		return nil, fsError(err, "create content directory", target)
	}

	n, err := fsutil.CopyTree(docsDir, target, fsutil.CopyOptions{Filter: copyFilter, Overwrite: true})
	if err != nil {
		return nil, fsError(err, "copy docs into workspace", docsDir)
	}
	slog.Debug("Copied docs", logfields.Path(docsDir), logfields.Count(n))

	report := &Report{}
	if err := injectAll(target, report); err != nil {
		return nil, err
	}

	replaced, err := applyLandingPrecedence(target)
	if err != nil {
		return nil, err
	}
	report.LandingReplaced = replaced

	sort.Slice(report.Pages, func(i, j int) bool { return report.Pages[i].Path < report.Pages[j].Path })
	slog.Info("Synchronized docs",
		logfields.Workspace(workspaceDir),
		logfields.Count(len(report.Pages)))
	return report, nil
}

func injectAll(root string, report *Report) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fsError(walkErr, "walk content directory", p)
		}
		if d.IsDir() || !IsDocument(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fsError(err, "resolve page path", p)
		}
		rel = filepath.ToSlash(rel)

		content, err := os.ReadFile(p)
		if err != nil {
			return fsError(err, "read page", p)
		}

		updated, how, injErr := InjectLayout(content, rel)
		switch {
		case errors.Is(injErr, frontmatter.ErrMissingClosingDelimiter):
			msg := fmt.Sprintf("%s: frontmatter has no closing delimiter, layout not injected", rel)
			slog.Warn("Skipping layout injection", logfields.Path(rel), logfields.Error(injErr))
			report.Warnings = append(report.Warnings, msg)
		case errors.Is(injErr, ErrUnparsedFrontmatter):
			slog.Warn("Frontmatter is not valid YAML, layout appended as text", logfields.Path(rel), logfields.Error(injErr))
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", rel, injErr))
		case injErr != nil:
			return ferrors.WrapError(injErr, ferrors.CategoryInternal, "inject layout").
				WithContext("path", p).Build()
		}

		if how != Unchanged {
			info, err := d.Info()
			if err != nil {
				return fsError(err, "stat page", p)
			}
			if err := os.WriteFile(p, updated, info.Mode().Perm()); err != nil {
				return fsError(err, "write page", p)
			}
		}

		fm, body, _, _, splitErr := frontmatter.Split(updated)
		if splitErr != nil {
			fm, body = nil, updated
		}
		report.Pages = append(report.Pages, Page{
			Path:        rel,
			Fingerprint: fingerprint(fm, body),
			Injection:   how,
		})
		return nil
	})
}

// applyLandingPrecedence removes the template's index.astro when the user
// supplied a Markdown index at the content root.
func applyLandingPrecedence(root string) (bool, error) {
	hasUserIndex := false
	for _, name := range userIndexNames {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			hasUserIndex = true
			break
		}
	}
	if !hasUserIndex {
		return false, nil
	}

	landing := filepath.Join(root, templateIndex)
	if _, err := os.Stat(landing); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := os.Remove(landing); err != nil {
		return false, fsError(err, "remove template landing page", landing)
	}
	slog.Debug("User index replaces template landing page", logfields.Path(landing))
	return true, nil
}

func fsError(err error, msg, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, msg).WithContext("path", path).Build()
}
