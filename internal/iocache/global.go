package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
)

// fetchTable is the name of the table for fetch caching.
const fetchTable = "fetch_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// InitCaching initializes the global cache manager.
// An empty backend leaves the manager without a store, which disables caching.
func InitCaching(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		store, err := NewCacheStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize fetch caching: %w", err)
			return
		}
		Manager.Lock()
		Manager.fetch = store
		Manager.Unlock()
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.fetch != nil {
			_ = Manager.fetch.Close()
		}
	})
}

// ClearCache clears the cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it deletes every row and keeps the migrated schema.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		// Bring the schema up first so clearing a fresh database is not an error
		if _, err := Migrate(backend, connStr, -1); err != nil {
			return err
		}
		return clearSQLTable(driverNames[backend], connStr, quoteTableName(fetchTable, backend))

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and empties the table if it exists.
func clearSQLTable(driverName, connStr, quotedTable string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", quotedTable)); err != nil {
		return fmt.Errorf("failed to clear table %s: %w", quotedTable, err)
	}

	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("%q", name)
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default:
		return name
	}
}
