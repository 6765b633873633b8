package templates

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// CachedTemplate is one row of the cache index.
type CachedTemplate struct {
	Ref      Ref
	Path     string
	CachedAt time.Time
}

// Index records which templates are cached and when they were fetched.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if needed) the SQLite index at path.
// Use ":memory:" for a throwaway index.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open template index: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	idx := &Index{db: db}
	if err := idx.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize template index: %w", err)
	}
	return idx, nil
}

func (i *Index) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS templates (
		owner TEXT NOT NULL,
		repo TEXT NOT NULL,
		ref TEXT NOT NULL,
		path TEXT NOT NULL,
		cached_at INTEGER NOT NULL,
		PRIMARY KEY (owner, repo, ref)
	);
	`
	_, err := i.db.Exec(schema)
	return err
}

// Close releases the database.
func (i *Index) Close() error {
	return i.db.Close()
}

// Put records ref as cached at path.
func (i *Index) Put(ctx context.Context, ref Ref, path string, at time.Time) error {
	_, err := i.db.ExecContext(ctx, `
		INSERT INTO templates (owner, repo, ref, path, cached_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (owner, repo, ref) DO UPDATE SET path = excluded.path, cached_at = excluded.cached_at`,
		ref.Owner, ref.Repo, ref.Ref, path, at.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record cached template: %w", err)
	}
	return nil
}

// Get returns the entry for ref, if any.
func (i *Index) Get(ctx context.Context, ref Ref) (CachedTemplate, bool, error) {
	row := i.db.QueryRowContext(ctx,
		"SELECT path, cached_at FROM templates WHERE owner = ? AND repo = ? AND ref = ?",
		ref.Owner, ref.Repo, ref.Ref,
	)
	var path string
	var ms int64
	switch err := row.Scan(&path, &ms); err {
	case nil:
		return CachedTemplate{Ref: ref, Path: path, CachedAt: time.UnixMilli(ms)}, true, nil
	case sql.ErrNoRows:
		return CachedTemplate{}, false, nil
	default:
		return CachedTemplate{}, false, fmt.Errorf("query cached template: %w", err)
	}
}

// List returns every entry ordered by owner, repo, ref.
func (i *Index) List(ctx context.Context) ([]CachedTemplate, error) {
	rows, err := i.db.QueryContext(ctx,
		"SELECT owner, repo, ref, path, cached_at FROM templates ORDER BY owner, repo, ref")
	if err != nil {
		return nil, fmt.Errorf("list cached templates: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []CachedTemplate
	for rows.Next() {
		var t CachedTemplate
		var ms int64
		if err := rows.Scan(&t.Ref.Owner, &t.Ref.Repo, &t.Ref.Ref, &t.Path, &ms); err != nil {
			return nil, fmt.Errorf("scan cached template: %w", err)
		}
		t.CachedAt = time.UnixMilli(ms)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes the entry for ref.
func (i *Index) Delete(ctx context.Context, ref Ref) error {
	_, err := i.db.ExecContext(ctx,
		"DELETE FROM templates WHERE owner = ? AND repo = ? AND ref = ?",
		ref.Owner, ref.Repo, ref.Ref)
	return err
}

// Clear removes every entry.
func (i *Index) Clear(ctx context.Context) error {
	_, err := i.db.ExecContext(ctx, "DELETE FROM templates")
	return err
}
