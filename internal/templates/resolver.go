package templates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/fsutil"
	"git.home.luguber.info/inful/lito/internal/logfields"
)

// IndexFile is the SQLite index inside the cache directory.
const IndexFile = "index.db"

// ErrUnknownTemplate is returned for identifiers that are neither a registry
// name, a local directory, nor a GitHub reference.
var ErrUnknownTemplate = errors.New("unknown template")

// Resolver turns identifiers into local template directories.
type Resolver struct {
	cacheDir string
	index    *Index
	fetcher  Fetcher
	now      func() time.Time
}

// DefaultCacheDir returns <user cache dir>/lito/templates.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "lito", "templates")
}

// NewResolver opens the cache index under cacheDir. A nil fetcher uses GitFetcher.
func NewResolver(cacheDir string, fetcher Fetcher) (*Resolver, error) {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	if fetcher == nil {
		fetcher = GitFetcher{}
	}
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create template cache").
			WithContext("path", cacheDir).Build()
	}
	idx, err := OpenIndex(filepath.Join(cacheDir, IndexFile))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryTemplate, "open template cache index").
			WithContext("path", cacheDir).Build()
	}
	return &Resolver{cacheDir: cacheDir, index: idx, fetcher: fetcher, now: time.Now}, nil
}

// Close releases the cache index.
func (r *Resolver) Close() error {
	return r.index.Close()
}

// CacheDir returns the cache root.
func (r *Resolver) CacheDir() string { return r.cacheDir }

// Resolve returns a local directory for id. refresh bypasses the cache.
func (r *Resolver) Resolve(ctx context.Context, id string, refresh bool) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = DefaultName
	}
	source := id
	if mapped, ok := Registry[id]; ok {
		source = mapped
	} else if info, err := os.Stat(id); err == nil && info.IsDir() {
		abs, err := filepath.Abs(id)
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve template path").
				WithContext("path", id).Build()
		}
		slog.Debug("Using local template", logfields.Template(abs))
		return abs, nil
	}

	ref, ok := ParseRef(source)
	if !ok {
		return "", ferrors.WrapError(ErrUnknownTemplate, ferrors.CategoryTemplate,
			fmt.Sprintf("template %q is not a registry name, directory, or owner/repo reference", id)).
			UserAction().
			WithContext("template", id).
			Build()
	}
	return r.resolveRemote(ctx, ref, refresh)
}

func (r *Resolver) resolveRemote(ctx context.Context, ref Ref, refresh bool) (string, error) {
	log := slog.With(logfields.Template(ref.String()))
	if !refresh {
		entry, ok, err := r.index.Get(ctx, ref)
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryTemplate, "read template cache").Build()
		}
		if ok {
			if info, statErr := os.Stat(entry.Path); statErr == nil && info.IsDir() {
				log.Debug("Template cache hit", slog.Time("cached_at", entry.CachedAt))
				return entry.Path, nil
			}
			log.Debug("Dropping stale template cache entry", logfields.Path(entry.Path))
			if err := r.index.Delete(ctx, ref); err != nil {
				return "", ferrors.WrapError(err, ferrors.CategoryTemplate, "drop stale template cache entry").Build()
			}
		}
	}

	dest, ok := r.pathFor(ref)
	if !ok {
		return "", ferrors.ValidationError("template reference escapes the cache directory").
			WithContext("template", ref.String()).Build()
	}
	tmp := fmt.Sprintf("%s.tmp-%d", dest, r.now().UnixNano())
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "create template cache entry").
			WithContext("path", dest).Build()
	}

	log.Info("Fetching template")
	if err := r.fetcher.Fetch(ctx, ref, tmp); err != nil {
		_ = os.RemoveAll(tmp)
		return "", fetchError(ref, err)
	}
	if err := os.RemoveAll(dest); err != nil {
		_ = os.RemoveAll(tmp)
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "replace cached template").
			WithContext("path", dest).Build()
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.RemoveAll(tmp)
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "install cached template").
			WithContext("path", dest).Build()
	}
	if err := r.index.Put(ctx, ref, dest, r.now()); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryTemplate, "record cached template").Build()
	}
	return dest, nil
}

// pathFor returns <cache>/<owner>/<repo>/<ref>. ok is false unless the result
// is exactly three levels below the cache root.
func (r *Resolver) pathFor(ref Ref) (string, bool) {
	dest := filepath.Join(r.cacheDir, ref.Owner, ref.Repo, strings.ReplaceAll(ref.Ref, "/", "__"))
	rel, err := filepath.Rel(r.cacheDir, dest)
	if err != nil || !fsutil.Within(r.cacheDir, dest) {
		return dest, false
	}
	return dest, len(strings.Split(rel, string(filepath.Separator))) == 3
}

// List returns cached templates ordered by owner, repo, ref.
func (r *Resolver) List(ctx context.Context) ([]CachedTemplate, error) {
	entries, err := r.index.List(ctx)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryTemplate, "list template cache").Build()
	}
	return entries, nil
}

// Clear removes every cached template and its index entry.
func (r *Resolver) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(r.cacheDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read template cache").
			WithContext("path", r.cacheDir).Build()
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), IndexFile) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(r.cacheDir, e.Name())); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "remove cached template").
				WithContext("path", filepath.Join(r.cacheDir, e.Name())).Build()
		}
	}
	if err := r.index.Clear(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryTemplate, "clear template cache index").Build()
	}
	slog.Info("Cleared template cache", logfields.Path(r.cacheDir))
	return nil
}

func fetchError(ref Ref, err error) error {
	b := ferrors.WrapError(err, ferrors.CategoryTemplate, "fetch template "+ref.String()).
		WithContext("template", ref.String())
	var nf *NotFoundError
	var auth *AuthError
	switch {
	case errors.As(err, &nf), errors.As(err, &auth):
		b = b.UserAction()
	case errors.Is(err, context.Canceled):
		b = b.WithRecovery(ferrors.RecoverNone)
	default:
		b = b.WithRecovery(ferrors.RecoverRerun)
	}
	return b.Build()
}
