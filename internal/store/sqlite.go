package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/anstrom/scanvault/internal/errors"
	"github.com/anstrom/scanvault/internal/logging"
)

// SQLiteConfig holds SQLite settings.
type SQLiteConfig struct {
	Path        string `yaml:"path" json:"path"`
	AutoMigrate bool   `yaml:"auto_migrate" json:"auto_migrate"`
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path:        "scanvault.db",
		AutoMigrate: true,
	}
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 30000",
	"PRAGMA temp_store = memory",
}

// OpenSQLite opens (creating if needed) the database file at cfg.Path.
func OpenSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLStore, error) {
	if cfg.Path == "" {
		return nil, errors.ErrConfigInvalid("store.sqlite.path", cfg.Path)
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.ErrStoreConnection(fmt.Errorf("create database directory: %w", err))
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", cfg.Path)
	if err != nil {
		return nil, errors.ErrStoreConnection(err)
	}

	// A single connection keeps pragmas and in-memory databases consistent.
	db.SetMaxOpenConns(1)

	for _, pragma := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.ErrStoreConnection(fmt.Errorf("applying pragma %q: %w", pragma, err))
		}
	}

	if cfg.AutoMigrate {
		if _, err := NewMigrator(db, BackendSQLite).Up(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	logging.InfoStore("Opened document store", BackendSQLite, "path", cfg.Path)
	return NewSQLStore(db, BackendSQLite), nil
}
