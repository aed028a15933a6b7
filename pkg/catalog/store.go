package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

// ErrNotFound is returned by stores when a catalog does not exist.
var ErrNotFound = verrors.New(verrors.ErrCodeCatalogNotFound, "catalog not found")

// ErrSlugTaken is returned by Put when another catalog already uses the slug.
var ErrSlugTaken = verrors.New(verrors.ErrCodeInvalidSlug, "share slug already in use")

// Store is the catalog configuration store. Renderers only read from it;
// Put exists for imports and tests.
type Store interface {
	// Get returns the catalog with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*Catalog, error)

	// GetBySlug returns the catalog with the given share slug or ErrNotFound.
	// An empty slug never matches.
	GetBySlug(ctx context.Context, slug string) (*Catalog, error)

	// Put inserts or replaces a catalog, keyed by id.
	Put(ctx context.Context, c *Catalog) error

	// List returns all catalogs ordered by most recently updated.
	List(ctx context.Context) ([]*Catalog, error)

	// Close releases the store's resources.
	Close() error
}

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// MemoryStore is an in-process Store. It copies catalogs on the way in and
// out so callers can't mutate stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{catalogs: make(map[string]*Catalog)}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.catalogs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

// GetBySlug implements Store.
func (s *MemoryStore) GetBySlug(ctx context.Context, slug string) (*Catalog, error) {
	if slug == "" {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.catalogs {
		if c.ShareSlug == slug {
			return c.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, c *Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ShareSlug != "" {
		for id, other := range s.catalogs {
			if id != c.ID && other.ShareSlug == c.ShareSlug {
				return ErrSlugTaken
			}
		}
	}
	cp := c.Clone()
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = cp.UpdatedAt
	}
	s.catalogs[c.ID] = cp
	return nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]*Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Catalog, 0, len(s.catalogs))
	for _, c := range s.catalogs {
		out = append(out, c.Clone())
	}
	SortByUpdated(out)
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// SortByUpdated orders catalogs newest first, breaking ties by id.
func SortByUpdated(cs []*Catalog) {
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].UpdatedAt.Equal(cs[j].UpdatedAt) {
			return cs[i].UpdatedAt.After(cs[j].UpdatedAt)
		}
		return cs[i].ID < cs[j].ID
	})
}

// Clone returns a deep copy of c.
func (c *Catalog) Clone() *Catalog {
	cp := *c
	cp.CategoryOrder = append([]string(nil), c.CategoryOrder...)
	if c.Products == nil {
		return &cp
	}
	cp.Products = make([]Product, len(c.Products))
	for i, p := range c.Products {
		p.Attributes = append([]Attribute(nil), p.Attributes...)
		cp.Products[i] = p
	}
	return &cp
}

var _ Store = (*MemoryStore)(nil)
