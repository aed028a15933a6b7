// Package mongo stores catalogs as MongoDB documents, one per catalog,
// keyed by the catalog id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/vitrinhq/vitrin/pkg/catalog"
)

// Defaults used when the connection string does not name a database.
const (
	DefaultDatabase   = "vitrin"
	DefaultCollection = "catalogs"
)

// Store is a catalog.Store backed by a MongoDB collection.
type Store struct {
	client *mongodriver.Client
	coll   *mongodriver.Collection
}

// Open connects to uri, pings the server and ensures the slug index.
// The database comes from the URI path, else DefaultDatabase.
func Open(ctx context.Context, uri string) (*Store, error) {
	opts := options.Client().ApplyURI(uri).SetConnectTimeout(10 * time.Second)
	client, err := mongodriver.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &Store{
		client: client,
		coll:   client.Database(databaseName(uri)).Collection(DefaultCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongodriver.IndexModel{
		{
			Keys: bson.D{{Key: "share_slug", Value: 1}},
			// Sparse: catalogs without a slug omit the field and never collide.
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Get implements catalog.Store.
func (s *Store) Get(ctx context.Context, id string) (*catalog.Catalog, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetBySlug implements catalog.Store.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*catalog.Catalog, error) {
	if slug == "" {
		return nil, catalog.ErrNotFound
	}
	return s.findOne(ctx, bson.M{"share_slug": slug})
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
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": cp.ID}, cp, options.Replace().SetUpsert(true))
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return catalog.ErrSlugTaken
		}
		return fmt.Errorf("put catalog: %w", err)
	}
	return nil
}

// List implements catalog.Store.
func (s *Store) List(ctx context.Context) ([]*catalog.Catalog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	var out []*catalog.Catalog
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	return out, nil
}

// Close implements catalog.Store.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*catalog.Catalog, error) {
	var c catalog.Catalog
	if err := s.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	return &c, nil
}

var _ catalog.Store = (*Store)(nil)

// databaseName returns the database named in the URI path, or
// DefaultDatabase.
func databaseName(uri string) string {
	cs, err := connstring.Parse(uri)
	if err != nil || cs.Database == "" {
		return DefaultDatabase
	}
	return cs.Database
}
