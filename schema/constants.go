package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// SnapshotMode selects what a stage snapshot totals.
	SnapshotMode string

	// Classification tells whether a stage transition moved a deal forward.
	Classification string

	// SourceKind selects where deals and change logs are fetched from.
	SourceKind string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// StatusActive is the canonical status of a deal that is still being worked.
const StatusActive = "Active"

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All snapshot modes supported.
const (
	CountMode SnapshotMode = "count" // default
	ValueMode SnapshotMode = "value"
)

// All classifications.
const (
	Advance    Classification = "Advance"
	Regression Classification = "Regression"
)

// All sources supported.
const (
	MondaySource SourceKind = "monday" // default
	FileSource   SourceKind = "file"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidSnapshotModes lists all valid snapshot modes.
var ValidSnapshotModes = map[SnapshotMode]struct{}{
	CountMode: {},
	ValueMode: {},
}

// ValidSources lists all valid sources.
var ValidSources = map[SourceKind]struct{}{
	MondaySource: {},
	FileSource:   {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
