package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/dealflow/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationResult reports the schema versions before and after a migration.
type MigrationResult struct {
	Backend schema.DatabaseBackend
	From    uint
	To      uint
	Changed bool
}

// Migrate runs the cache schema migrations for the backend.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
// Migrations run on their own connection which is closed before returning.
func Migrate(backend schema.DatabaseBackend, connStr string, targetVersion int) (MigrationResult, error) {
	result := MigrationResult{Backend: backend}
	if backend == schema.NoneBackend {
		return result, fmt.Errorf("migrations are not supported for the none backend")
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = GetDBFilePath()
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return result, err
	}

	m, err := newMigrator(backend, db)
	if err != nil {
		_ = db.Close()
		return result, err
	}
	// Closing the migrator closes db as well
	defer func() { _, _ = m.Close() }()

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return result, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", current)
	}
	result.From = current

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		result.To = current
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to migrate %s cache to version %d: %w", backend, targetVersion, err)
	}

	result.Changed = true
	if v, _, err := m.Version(); err == nil {
		result.To = v
	}
	return result, nil
}

// newMigrator wires the embedded migrations of the backend to db.
func newMigrator(backend schema.DatabaseBackend, db *sql.DB) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	// Get the migrations subdirectory for the backend
	sub, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "dealflow", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
