// Package sqlite stores catalogs in a SQLite database file.
//
// Catalogs are kept as JSON documents keyed by id, with the share slug and
// update time in their own columns for lookups and ordering. The driver is
// modernc.org/sqlite, so no cgo is needed.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vitrinhq/vitrin/pkg/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalogs (
	id          TEXT PRIMARY KEY,
	share_slug  TEXT UNIQUE,
	name        TEXT NOT NULL,
	published   INTEGER NOT NULL DEFAULT 0,
	data        TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS catalogs_updated_at ON catalogs (updated_at DESC);
`

// Store is a catalog.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer at a time; WAL lets readers proceed alongside it.
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Get implements catalog.Store.
func (s *Store) Get(ctx context.Context, id string) (*catalog.Catalog, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `SELECT data FROM catalogs WHERE id = ?`, id))
}

// GetBySlug implements catalog.Store.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*catalog.Catalog, error) {
	if slug == "" {
		return nil, catalog.ErrNotFound
	}
	return s.scanOne(s.db.QueryRowContext(ctx, `SELECT data FROM catalogs WHERE share_slug = ?`, slug))
}

// Put implements catalog.Store.
func (s *Store) Put(ctx context.Context, c *catalog.Catalog) error {
	cp := c.Clone()
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = cp.UpdatedAt
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	var slug any
	if cp.ShareSlug != "" {
		slug = cp.ShareSlug
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO catalogs (id, share_slug, name, published, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			share_slug = excluded.share_slug,
			name       = excluded.name,
			published  = excluded.published,
			data       = excluded.data,
			updated_at = excluded.updated_at`,
		cp.ID, slug, cp.Name, cp.Published, string(data),
		cp.CreatedAt.UTC().Format(time.RFC3339Nano), cp.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: catalogs.share_slug") {
			return catalog.ErrSlugTaken
		}
		return fmt.Errorf("put catalog: %w", err)
	}
	return nil
}

// List implements catalog.Store.
func (s *Store) List(ctx context.Context) ([]*catalog.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM catalogs`)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	defer rows.Close()

	var out []*catalog.Catalog
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		c, err := decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	// RFC3339 strings don't sort correctly across offsets and precisions,
	// so order after decoding.
	catalog.SortByUpdated(out)
	return out, nil
}

// Close implements catalog.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) scanOne(row *sql.Row) (*catalog.Catalog, error) {
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	return decode(data)
}

func decode(data string) (*catalog.Catalog, error) {
	var c catalog.Catalog
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

var _ catalog.Store = (*Store)(nil)
