// Package fsutil holds the recursive copy used by every stage that moves
// files into or out of the workspace.
package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/lito/internal/logfields"
	"git.home.luguber.info/inful/lito/internal/util/sets"
)

// Filter decides whether an entry is copied. rel is relative to the copy root.
// Returning false for a directory skips its subtree.
type Filter func(rel string, d fs.DirEntry) bool

// CopyOptions controls CopyTree.
type CopyOptions struct {
	Filter Filter
	// Overwrite replaces existing destination files. Without it, existing
	// files are left as they are.
	Overwrite bool
}

// CopyTree copies src into dst recursively and returns the number of files copied.
// Symlinks are followed: a link to a file copies its content and a link to a
// directory copies that directory's tree. Links back into a directory already
// being copied, dangling links and special files are skipped.
func CopyTree(src, dst string, opts CopyOptions) (int, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if !srcInfo.IsDir() {
		return 0, fmt.Errorf("copy %s: not a directory", src)
	}

	c := &copier{opts: opts, visited: sets.New[string]()}
	err = c.tree(src, dst, "")
	return c.copied, err
}

type copier struct {
	opts    CopyOptions
	visited sets.Set[string]
	copied  int
}

// tree copies the directory src resolves to into dst. prefix is src relative
// to the copy root, for the filter.
func (c *copier) tree(src, dst, prefix string) error {
	root, err := filepath.EvalSymlinks(src)
	if err != nil {
		return err
	}
	if c.visited.Has(root) {
		slog.Debug("Skipping symlink cycle", logfields.Path(src))
		return nil
	}
	c.visited.Insert(root)
	if err := os.MkdirAll(dst, 0o750); err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		local, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if local == "." {
			return nil
		}
		rel := filepath.Join(prefix, local)
		link := d.Type()&fs.ModeSymlink != 0
		if link {
			info, err := os.Stat(path)
			if err != nil {
				slog.Debug("Skipping dangling symlink", logfields.Path(path), logfields.Error(err))
				return nil
			}
			d = fs.FileInfoToDirEntry(info)
		}
		if c.opts.Filter != nil && !c.opts.Filter(rel, d) {
			if d.IsDir() && !link {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, local)
		switch {
		case d.IsDir() && link:
			return c.tree(path, target, rel)
		case d.IsDir():
			return os.MkdirAll(target, 0o750)
		case !d.Type().IsRegular():
			slog.Debug("Skipping non-regular file", logfields.Path(path))
			return nil
		}
		return c.file(path, target)
	})
}

func (c *copier) file(path, target string) error {
	if !c.opts.Overwrite {
		if _, err := os.Stat(target); err == nil {
			return nil
		}
	}
	if err := CopyFile(path, target); err != nil {
		return err
	}
	c.copied++
	return nil
}

// CopyFile copies a single file, preserving its permission bits.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode().Perm())
}

// ExcludeNames returns a Filter rejecting any entry whose base name is in names.
// Matching is exact, so `.astro` excludes the cache directory but not `page.astro`.
func ExcludeNames(names ...string) Filter {
	skip := sets.New(names...)
	return func(_ string, d fs.DirEntry) bool {
		return !skip.Has(d.Name())
	}
}
