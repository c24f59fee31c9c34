package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/internal/iocache"
	"github.com/huangsam/dealflow/internal/outwriter"
	"github.com/huangsam/dealflow/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheBackendFromViper reads and validates the cache backend settings.
func cacheBackendFromViper() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("cache-backend")))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	backend, connStr, err := cacheBackendFromViper()
	if err != nil {
		return err
	}

	if err := iocache.InitCaching(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheMigrateSetup validates the backend without opening the store,
// so migrations can run against a fresh or rolled back database.
func cacheMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := cacheBackendFromViper()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetCacheDBFilePath()
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the pipeline commands. This avoids source
// validation, so no board or token is needed to manage the cache.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the fetch cache of deals and change-log pages",
	Long: `Manage the cache that keeps raw fetched deals and change-log pages.

Dealflow caches what the remote board returns so repeated runs inside the
cache TTL do not hit the API again. Only raw data is cached; every report is
recomputed on each run.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Move the cache schema to a given version

Examples:
  # Check cache status
  dealflow cache status

  # Drop everything after a board was restructured
  dealflow cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached deals and change-log pages",
	Long: `Delete all cached data from the configured backend.

Use this when:
- Board columns or stage labels changed
- Cache may be stale or corrupted
- Comparing against a fresh fetch

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Deletes every row of the cache table

Examples:
  # Clear SQLite cache (default)
  dealflow cache clear

  # Clear MySQL cache (set connection string via env variable)
  DEALFLOW_CACHE_BACKEND=mysql DEALFLOW_CACHE_DB_CONNECT="..." dealflow cache clear`,
	PreRunE: cacheMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		// For sqlite the connection string is the database file
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the fetch cache.

Displays:
- Backend type and connection status
- Number of cached deal lists and change-log pages
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  dealflow cache status

  # Machine readable
  dealflow cache status --output json`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetFetchStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		if err := outwriter.PrintCacheStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print cache status", err)
		}
	},
}

// cacheMigrateCmd runs database migrations for the cache store.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run cache schema migrations",
	Long: `Move the cache schema to the latest or to a specific version.

The cache is migrated to the latest version automatically whenever it is
opened. Use this command to inspect the version or to roll back.

Examples:
  # Migrate to latest version (default)
  dealflow cache migrate

  # Migrate to specific version
  dealflow cache migrate --target-version 1

  # Rollback all migrations
  dealflow cache migrate --target-version 0`,
	PreRunE: cacheMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.Migrate(cfg.CacheBackend, cfg.CacheDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to migrate cache", err)
		}
		if !result.Changed {
			fmt.Printf("Cache schema (%s) already at version %d.\n", result.Backend, result.To)
			return
		}
		fmt.Printf("Cache schema (%s) migrated from version %d to %d.\n", result.Backend, result.From, result.To)
	},
}
