// Package store provides the document store that holds scan documents.
// It defines the Store contract used by the query engine and the HTTP layer,
// and implements it over memory, MongoDB, PostgreSQL and SQLite.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/anstrom/scanvault/internal/document"
	"github.com/anstrom/scanvault/internal/errors"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/anstrom/scanvault/internal/store Store

// Backend names.
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Store holds an unordered collection of scan documents.
type Store interface {
	// InsertMany stores every document of the batch or fails as a whole.
	// It returns the number of documents inserted.
	InsertMany(ctx context.Context, docs []document.Document) (int, error)

	// Find returns the documents matching filter in the store's natural
	// order. A nil filter returns every document.
	Find(ctx context.Context, filter *document.FieldFilter) ([]document.Document, error)

	// DeleteAll removes every document and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the resources held by the store.
	Close(ctx context.Context) error

	// Backend returns the backend name.
	Backend() string
}

// Config selects and configures a store backend.
type Config struct {
	Backend  string         `yaml:"backend" json:"backend" validate:"required,oneof=memory mongo postgres sqlite"`
	Mongo    MongoConfig    `yaml:"mongo" json:"mongo"`
	Postgres PostgresConfig `yaml:"postgres" json:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite" json:"sqlite"`

	// Timeout bounds connection establishment and the initial ping.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Backend:  BackendMongo,
		Mongo:    DefaultMongoConfig(),
		Postgres: DefaultPostgresConfig(),
		SQLite:   DefaultSQLiteConfig(),
		Timeout:  10 * time.Second,
	}
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg *Config) (Store, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendMongo:
		return OpenMongo(ctx, &cfg.Mongo)
	case BackendPostgres:
		return OpenPostgres(ctx, &cfg.Postgres)
	case BackendSQLite:
		return OpenSQLite(ctx, &cfg.SQLite)
	default:
		return nil, errors.ErrConfigInvalid("store.backend", cfg.Backend)
	}
}

// storeErr wraps a driver error unless it already is a store error.
func storeErr(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.GetCode(err) != errors.CodeUnknown {
		return err
	}
	return errors.ErrStore(operation, err)
}

// errEmptyBatch is returned when InsertMany is called without documents.
var errEmptyBatch = fmt.Errorf("documents must be a non-empty list")
