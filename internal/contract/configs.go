package contract

import (
	"fmt"
	"maps"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/dealflow/schema"
)

// Default values for configuration.
const (
	DefaultAPIURL         = "https://api.monday.com/v2"
	DefaultHorizon        = "90 days"
	DefaultLogPageLimit   = 200
	DefaultItemsPageLimit = 500
	DefaultPageDelay      = "2s"
	DefaultTrackedField   = "status6__1"
	DefaultActiveLabel    = "Active"
	DefaultCacheTTL       = "1 hour"
	DefaultPrecision      = 2
	MaxPageLimit          = 500
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for every command.
// This struct remains the "final, validated" config.
type Config struct {
	Source    schema.SourceKind
	BoardID   string
	APIToken  string // Please use env var as this is plaintext
	APIURL    string
	DealsFile string
	LogsFile  string

	Owner   string
	Company string
	Mode    schema.SnapshotMode

	Horizon        time.Duration
	LogPageLimit   int
	ItemsPageLimit int
	PageDelay      time.Duration
	MaxPages       int
	TrackedField   string
	ActiveLabel    string

	// Columns overrides the board column ids, keyed by deal field or stage key.
	Columns map[string]string

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Source    string `mapstructure:"source"`
	BoardID   string `mapstructure:"board-id"`
	APIToken  string `mapstructure:"api-token"`
	APIURL    string `mapstructure:"api-url"`
	DealsFile string `mapstructure:"deals-file"`
	LogsFile  string `mapstructure:"logs-file"`

	Owner   string `mapstructure:"owner"`
	Company string `mapstructure:"company"`
	Mode    string `mapstructure:"mode"`

	Horizon        string `mapstructure:"horizon"`
	LogPageLimit   int    `mapstructure:"log-page-limit"`
	ItemsPageLimit int    `mapstructure:"items-page-limit"`
	PageDelay      string `mapstructure:"page-delay"`
	MaxPages       int    `mapstructure:"max-pages"`
	TrackedField   string `mapstructure:"tracked-field"`
	ActiveLabel    string `mapstructure:"active-label"`

	Columns map[string]string `mapstructure:"columns"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheTTL       string `mapstructure:"cache-ttl"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Columns != nil {
		clone.Columns = make(map[string]string, len(c.Columns))
		maps.Copy(clone.Columns, c.Columns)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	if err := processPaging(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the fetch cache configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	ttl := input.CacheTTL
	if ttl == "" {
		ttl = DefaultCacheTTL
	}
	d, err := ParseDuration(ttl)
	if err != nil {
		return fmt.Errorf("invalid cache-ttl: %w", err)
	}
	cfg.CacheTTL = d
	return nil
}

// validateSimpleInputs processes and validates all presentation and filter fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Owner = strings.TrimSpace(input.Owner)
	cfg.Company = strings.TrimSpace(input.Company)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Mode Validation ---
	cfg.Mode = schema.SnapshotMode(strings.ToLower(input.Mode))
	if cfg.Mode == "" {
		cfg.Mode = schema.CountMode
	}
	if _, ok := schema.ValidSnapshotModes[cfg.Mode]; !ok {
		return fmt.Errorf("invalid mode '%s'. must be count, value", input.Mode)
	}

	// --- 2. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}
	return nil
}

// processSource validates where deals and logs come from.
func processSource(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = schema.SourceKind(strings.ToLower(strings.TrimSpace(input.Source)))
	if cfg.Source == "" {
		cfg.Source = schema.MondaySource
	}
	if _, ok := schema.ValidSources[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be monday, file", input.Source)
	}

	cfg.ActiveLabel = strings.TrimSpace(input.ActiveLabel)
	if cfg.ActiveLabel == "" {
		cfg.ActiveLabel = DefaultActiveLabel
	}
	cfg.Columns = make(map[string]string, len(input.Columns))
	for k, v := range input.Columns {
		if v = strings.TrimSpace(v); v != "" {
			cfg.Columns[strings.ToLower(k)] = v
		}
	}

	switch cfg.Source {
	case schema.MondaySource:
		cfg.BoardID = strings.TrimSpace(input.BoardID)
		cfg.APIToken = strings.TrimSpace(input.APIToken)
		cfg.APIURL = strings.TrimSpace(input.APIURL)
		if cfg.APIURL == "" {
			cfg.APIURL = DefaultAPIURL
		}
		if cfg.BoardID == "" {
			return fmt.Errorf("board-id is required for the monday source")
		}
		if cfg.APIToken == "" {
			return fmt.Errorf("api-token is required for the monday source (set DEALFLOW_API_TOKEN)")
		}
		if u, err := url.Parse(cfg.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid api-url %q", cfg.APIURL)
		}
	case schema.FileSource:
		cfg.DealsFile = strings.TrimSpace(input.DealsFile)
		cfg.LogsFile = strings.TrimSpace(input.LogsFile)
		if cfg.DealsFile == "" {
			return fmt.Errorf("deals-file is required for the file source")
		}
	}
	return nil
}

// processPaging handles the transition horizon and paging knobs.
func processPaging(cfg *Config, input *ConfigRawInput) error {
	horizon := input.Horizon
	if horizon == "" {
		horizon = DefaultHorizon
	}
	h, err := ParseDuration(horizon)
	if err != nil {
		return fmt.Errorf("invalid horizon: %w", err)
	}
	cfg.Horizon = h

	delay := strings.TrimSpace(input.PageDelay)
	if delay == "" {
		delay = DefaultPageDelay
	}
	if delay != "0" && delay != "none" {
		d, err := ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid page-delay: %w", err)
		}
		cfg.PageDelay = d
	}

	cfg.LogPageLimit = input.LogPageLimit
	if cfg.LogPageLimit == 0 {
		cfg.LogPageLimit = DefaultLogPageLimit
	}
	cfg.ItemsPageLimit = input.ItemsPageLimit
	if cfg.ItemsPageLimit == 0 {
		cfg.ItemsPageLimit = DefaultItemsPageLimit
	}
	for name, v := range map[string]int{"log-page-limit": cfg.LogPageLimit, "items-page-limit": cfg.ItemsPageLimit} {
		if v < 1 || v > MaxPageLimit {
			return fmt.Errorf("%s must be between 1 and %d (received %d)", name, MaxPageLimit, v)
		}
	}

	if input.MaxPages < 0 {
		return fmt.Errorf("max-pages cannot be negative (received %d)", input.MaxPages)
	}
	cfg.MaxPages = input.MaxPages

	cfg.TrackedField = strings.TrimSpace(input.TrackedField)
	if cfg.TrackedField == "" {
		cfg.TrackedField = DefaultTrackedField
	}
	return nil
}
