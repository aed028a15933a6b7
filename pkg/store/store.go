// Package store opens the configured catalog store.
//
// Drivers:
//   - memory: in-process, for tests and one-shot CLI runs
//   - sqlite: a local database file (dsn is the file path)
//   - postgres: a PostgreSQL database (dsn is a postgres:// URL)
//   - mongo: a MongoDB deployment (dsn is a mongodb:// URI)
package store

import (
	"context"
	"strings"

	"github.com/vitrinhq/vitrin/pkg/catalog"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/store/mongo"
	"github.com/vitrinhq/vitrin/pkg/store/postgres"
	"github.com/vitrinhq/vitrin/pkg/store/sqlite"
)

// Driver names.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Drivers returns every supported driver name.
func Drivers() []string {
	return []string{DriverMemory, DriverSQLite, DriverPostgres, DriverMongo}
}

// Open opens a catalog store. An empty driver is inferred from the dsn:
// postgres:// and postgresql:// URLs use postgres, mongodb:// and
// mongodb+srv:// use mongo, any other non-empty dsn is a SQLite path, and
// no dsn at all is an in-memory store.
func Open(ctx context.Context, driver, dsn string) (catalog.Store, error) {
	if driver == "" {
		driver = InferDriver(dsn)
	}
	switch driver {
	case DriverMemory:
		return catalog.NewMemoryStore(), nil
	case DriverSQLite:
		if dsn == "" {
			return nil, verrors.New(verrors.ErrCodeInvalidInput, "sqlite store needs a database path")
		}
		return sqlite.Open(ctx, dsn)
	case DriverPostgres:
		return postgres.Open(ctx, dsn)
	case DriverMongo:
		return mongo.Open(ctx, dsn)
	}
	return nil, verrors.New(verrors.ErrCodeInvalidInput,
		"unknown store driver %q (must be one of: %s)", driver, strings.Join(Drivers(), ", "))
}

// InferDriver guesses the driver from a dsn.
func InferDriver(dsn string) string {
	switch {
	case dsn == "":
		return DriverMemory
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return DriverMongo
	}
	return DriverSQLite
}
