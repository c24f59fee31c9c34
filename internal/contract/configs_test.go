package contract

import (
	"testing"
	"time"

	"github.com/huangsam/dealflow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayInput() *ConfigRawInput {
	return &ConfigRawInput{
		Source:   "monday",
		BoardID:  "123",
		APIToken: "secret",
		Color:    "no",
		Output:   "text",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, mondayInput()))

	assert.Equal(t, schema.MondaySource, cfg.Source)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, schema.CountMode, cfg.Mode)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, 90*24*time.Hour, cfg.Horizon)
	assert.Equal(t, 2*time.Second, cfg.PageDelay)
	assert.Equal(t, DefaultLogPageLimit, cfg.LogPageLimit)
	assert.Equal(t, DefaultItemsPageLimit, cfg.ItemsPageLimit)
	assert.Equal(t, DefaultTrackedField, cfg.TrackedField)
	assert.Equal(t, DefaultActiveLabel, cfg.ActiveLabel)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.UseColors)
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		check       func(*testing.T, *Config)
	}{
		{
			name:   "file source",
			mutate: func(in *ConfigRawInput) { in.Source = "FILE"; in.DealsFile = "deals.json"; in.LogsFile = "logs.json" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.FileSource, cfg.Source)
				assert.Equal(t, "deals.json", cfg.DealsFile)
			},
		},
		{
			name:        "file source without deals",
			mutate:      func(in *ConfigRawInput) { in.Source = "file" },
			expectError: true,
		},
		{
			name:        "unknown source",
			mutate:      func(in *ConfigRawInput) { in.Source = "salesforce" },
			expectError: true,
		},
		{
			name:        "monday without board",
			mutate:      func(in *ConfigRawInput) { in.BoardID = "" },
			expectError: true,
		},
		{
			name:        "monday without token",
			mutate:      func(in *ConfigRawInput) { in.APIToken = "" },
			expectError: true,
		},
		{
			name:        "bad api url",
			mutate:      func(in *ConfigRawInput) { in.APIURL = "not a url" },
			expectError: true,
		},
		{
			name:   "value mode and custom horizon",
			mutate: func(in *ConfigRawInput) { in.Mode = "VALUE"; in.Horizon = "30 days"; in.PageDelay = "500ms" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.ValueMode, cfg.Mode)
				assert.Equal(t, 30*24*time.Hour, cfg.Horizon)
				assert.Equal(t, 500*time.Millisecond, cfg.PageDelay)
			},
		},
		{
			name:   "pacing disabled",
			mutate: func(in *ConfigRawInput) { in.PageDelay = "0" },
			check: func(t *testing.T, cfg *Config) {
				assert.Zero(t, cfg.PageDelay)
			},
		},
		{
			name:        "invalid mode",
			mutate:      func(in *ConfigRawInput) { in.Mode = "sum" },
			expectError: true,
		},
		{
			name:        "invalid horizon",
			mutate:      func(in *ConfigRawInput) { in.Horizon = "forever" },
			expectError: true,
		},
		{
			name:        "page limit too large",
			mutate:      func(in *ConfigRawInput) { in.LogPageLimit = 10_000 },
			expectError: true,
		},
		{
			name:        "negative max pages",
			mutate:      func(in *ConfigRawInput) { in.MaxPages = -1 },
			expectError: true,
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "parquet needs output file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: true,
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "sometimes" },
			expectError: true,
		},
		{
			name:        "invalid precision",
			mutate:      func(in *ConfigRawInput) { in.Precision = 9 },
			expectError: true,
		},
		{
			name:        "mysql without dsn",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "mysql" },
			expectError: true,
		},
		{
			name: "postgres with dsn",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "postgresql"
				in.CacheDBConnect = "host=localhost port=5432 user=postgres dbname=dealflow"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.PostgreSQLBackend, cfg.CacheBackend)
			},
		},
		{
			name:        "invalid cache ttl",
			mutate:      func(in *ConfigRawInput) { in.CacheTTL = "0s" },
			expectError: true,
		},
		{
			name:   "column overrides",
			mutate: func(in *ConfigRawInput) { in.Columns = map[string]string{"Owner": " people_1 ", "company": ""} },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, map[string]string{"owner": "people_1"}, cfg.Columns)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := mondayInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/dealflow"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@localhost"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Columns: map[string]string{"owner": "a"}}
	clone := cfg.Clone()
	clone.Columns["owner"] = "b"
	assert.Equal(t, "a", cfg.Columns["owner"])
}
