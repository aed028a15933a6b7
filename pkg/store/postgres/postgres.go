// Package postgres stores catalogs in PostgreSQL as jsonb documents.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrinhq/vitrin/pkg/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalogs (
	id          text PRIMARY KEY,
	share_slug  text UNIQUE,
	name        text NOT NULL,
	published   boolean NOT NULL DEFAULT false,
	data        jsonb NOT NULL,
	created_at  timestamptz NOT NULL,
	updated_at  timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS catalogs_updated_at ON catalogs (updated_at DESC, id);
`

// uniqueViolation is the SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// Store is a catalog.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewPool opens a connection pool with conservative limits.
func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse pg url: %w", err)
	}
	cfg.MinConns = 1
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return pool, nil
}

// Open connects to url and runs migrations.
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := NewPool(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Get implements catalog.Store.
func (s *Store) Get(ctx context.Context, id string) (*catalog.Catalog, error) {
	return s.queryOne(ctx, `SELECT data FROM catalogs WHERE id = $1`, id)
}

// GetBySlug implements catalog.Store.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*catalog.Catalog, error) {
	if slug == "" {
		return nil, catalog.ErrNotFound
	}
	return s.queryOne(ctx, `SELECT data FROM catalogs WHERE share_slug = $1`, slug)
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

	var slug *string
	if cp.ShareSlug != "" {
		slug = &cp.ShareSlug
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO catalogs (id, share_slug, name, published, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
			share_slug = EXCLUDED.share_slug,
			name       = EXCLUDED.name,
			published  = EXCLUDED.published,
			data       = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`,
		cp.ID, slug, cp.Name, cp.Published, data, cp.CreatedAt, cp.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "catalogs_share_slug_key" {
			return catalog.ErrSlugTaken
		}
		return fmt.Errorf("put catalog: %w", err)
	}
	return nil
}

// List implements catalog.Store.
func (s *Store) List(ctx context.Context) ([]*catalog.Catalog, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM catalogs ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*catalog.Catalog, error) {
		var data []byte
		if err := row.Scan(&data); err != nil {
			return nil, err
		}
		return decode(data)
	})
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	return out, nil
}

// Close implements catalog.Store.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) queryOne(ctx context.Context, sql string, arg any) (*catalog.Catalog, error) {
	var data []byte
	if err := s.pool.QueryRow(ctx, sql, arg).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (*catalog.Catalog, error) {
	var c catalog.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

var _ catalog.Store = (*Store)(nil)
