// Package output copies the toolchain's build output to its destination.
package output

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/fsutil"
	"git.home.luguber.info/inful/lito/internal/logfields"
	"git.home.luguber.info/inful/lito/internal/util/sets"
	"git.home.luguber.info/inful/lito/internal/workspace"
)

// Collect copies <workspace>/dist into dest, creating dest if needed and
// replacing files that already exist there. It returns the file count.
func Collect(workspaceDir, dest string) (int, error) {
	src := filepath.Join(workspaceDir, workspace.OutputDir)
	n, err := fsutil.CopyTree(src, dest, fsutil.CopyOptions{Overwrite: true})
	if err != nil {
		return 0, ferrors.WrapError(err, ferrors.CategoryFileSystem, "copy build output").
			WithContext("path", src).Build()
	}
	slog.Info("Collected build output", logfields.Path(dest), logfields.Count(n))
	return n, nil
}

// exportExcluded are workspace-root entries an exported project leaves out.
var exportExcluded = sets.New(workspace.StateDir, workspace.OutputDir, "node_modules")

// Export copies the assembled project in workspaceDir to dest so it can be
// developed without lito. Root entries in exportExcluded are skipped.
func Export(workspaceDir, dest string) (int, error) {
	filter := func(rel string, _ fs.DirEntry) bool {
		return !exportExcluded.Has(filepath.ToSlash(rel))
	}
	n, err := fsutil.CopyTree(workspaceDir, dest, fsutil.CopyOptions{Filter: filter, Overwrite: true})
	if err != nil {
		return 0, ferrors.WrapError(err, ferrors.CategoryFileSystem, "export project").
			WithContext("path", dest).Build()
	}
	slog.Info("Exported project", logfields.Path(dest), logfields.Count(n))
	return n, nil
}
