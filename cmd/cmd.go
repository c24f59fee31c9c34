// Package cmd defines the command-line interface for dealflow.
package cmd

import (
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(evolutionCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(transitionsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("source", string(schema.MondaySource), "Deal source: monday or file")
	rootCmd.PersistentFlags().String("board-id", "", "Board holding the deals (monday source)")
	rootCmd.PersistentFlags().String("api-token", "", "API token for the monday source (prefer DEALFLOW_API_TOKEN)")
	rootCmd.PersistentFlags().String("api-url", contract.DefaultAPIURL, "GraphQL endpoint of the monday source")
	rootCmd.PersistentFlags().String("deals-file", "", "JSON or YAML file with deals (file source)")
	rootCmd.PersistentFlags().String("logs-file", "", "JSON file with change-log entries (file source)")
	rootCmd.PersistentFlags().String("owner", "", "Only count deals with this owner")
	rootCmd.PersistentFlags().String("company", "", "Only count deals of this company")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for money columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL, "How long fetched pages stay fresh in the cache")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of snapshotCmd to Viper
	snapshotCmd.Flags().String("mode", string(schema.CountMode), "Snapshot mode: count or value")
	if err := viper.BindPFlags(snapshotCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot flags", err)
	}

	// Bind all flags of transitionsCmd to Viper
	transitionsCmd.Flags().String("horizon", contract.DefaultHorizon, "How far back to reconstruct transitions")
	transitionsCmd.Flags().Int("log-page-limit", contract.DefaultLogPageLimit, "Change-log entries requested per page")
	transitionsCmd.Flags().String("page-delay", contract.DefaultPageDelay, "Pause between change-log pages (0 disables)")
	transitionsCmd.Flags().Int("max-pages", 0, "Stop after this many change-log pages (0 = until exhausted)")
	transitionsCmd.Flags().String("tracked-field", contract.DefaultTrackedField, "Column id of the stage field in the change log")
	if err := viper.BindPFlags(transitionsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding transitions flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
