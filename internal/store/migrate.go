package store

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/anstrom/scanvault/internal/errors"
	"github.com/anstrom/scanvault/internal/logging"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

var migrationsTableDDL = map[string]string{
	BackendPostgres: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW(),
			checksum VARCHAR(64) NOT NULL
		)`,
	BackendSQLite: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			applied_at TEXT DEFAULT CURRENT_TIMESTAMP,
			checksum TEXT NOT NULL
		)`,
}

// Migration is a row of schema_migrations.
type Migration struct {
	ID        int    `db:"id"`
	Name      string `db:"name"`
	AppliedAt string `db:"applied_at"`
	Checksum  string `db:"checksum"`
}

// MigrationStatus reports whether an embedded migration has been applied.
type MigrationStatus struct {
	Name      string
	Applied   bool
	AppliedAt string
	// Modified is set when the applied checksum differs from the embedded file.
	Modified bool
}

// Migrator applies the embedded migrations of one SQL dialect.
type Migrator struct {
	db      *sqlx.DB
	dialect string
	files   fs.FS
}

// NewMigrator creates a migrator for dialect (postgres or sqlite).
func NewMigrator(db *sqlx.DB, dialect string) *Migrator {
	return &Migrator{db: db, dialect: dialect, files: migrationFiles}
}

func (m *Migrator) ensureMigrationsTable(ctx context.Context) error {
	ddl, ok := migrationsTableDDL[m.dialect]
	if !ok {
		return errors.ErrStoreMigration("schema_migrations", fmt.Errorf("unsupported dialect %q", m.dialect))
	}
	if _, err := m.db.ExecContext(ctx, ddl); err != nil {
		return errors.ErrStoreMigration("schema_migrations", err)
	}
	return nil
}

func (m *Migrator) appliedMigrations(ctx context.Context) (map[string]Migration, error) {
	var migrations []Migration
	query := `SELECT id, name, applied_at, checksum FROM schema_migrations ORDER BY id`
	if err := m.db.SelectContext(ctx, &migrations, query); err != nil {
		return nil, errors.ErrStore("list migrations", err)
	}

	applied := make(map[string]Migration, len(migrations))
	for _, migration := range migrations {
		applied[migration.Name] = migration
	}
	return applied, nil
}

// migrationFiles returns the dialect's migration files in name order.
func (m *Migrator) migrationFiles() ([]string, error) {
	dir := path.Join("migrations", m.dialect)
	entries, err := fs.ReadDir(m.files, dir)
	if err != nil {
		return nil, errors.ErrStoreMigration(m.dialect, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func migrationName(file string) string {
	return strings.TrimSuffix(path.Base(file), ".sql")
}

func checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (m *Migrator) execute(ctx context.Context, file string) error {
	name := migrationName(file)
	content, err := fs.ReadFile(m.files, file)
	if err != nil {
		return errors.ErrStoreMigration(name, err)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.ErrStoreMigration(name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return errors.ErrStoreMigration(name, err)
	}

	record := tx.Rebind(`INSERT INTO schema_migrations (name, checksum) VALUES (?, ?)`)
	if _, err := tx.ExecContext(ctx, record, name, checksum(content)); err != nil {
		return errors.ErrStoreMigration(name, err)
	}

	if err := tx.Commit(); err != nil {
		return errors.ErrStoreMigration(name, err)
	}
	return nil
}

// Up applies every pending migration and returns the names applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	files, err := m.migrationFiles()
	if err != nil {
		return nil, err
	}

	var done []string
	for _, file := range files {
		name := migrationName(file)
		if _, exists := applied[name]; exists {
			logging.Debug("Migration already applied", "migration", name, "backend", m.dialect)
			continue
		}

		if err := m.execute(ctx, file); err != nil {
			return done, err
		}
		logging.InfoStore("Applied migration", m.dialect, "migration", name)
		done = append(done, name)
	}
	return done, nil
}

// Status lists every embedded migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	files, err := m.migrationFiles()
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(files))
	for _, file := range files {
		name := migrationName(file)
		status := MigrationStatus{Name: name}
		if migration, ok := applied[name]; ok {
			status.Applied = true
			status.AppliedAt = migration.AppliedAt
			if content, err := fs.ReadFile(m.files, file); err == nil {
				status.Modified = checksum(content) != migration.Checksum
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
