package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// StageTotal is one row of a stage snapshot.
// Total is a deal count or a contract value sum depending on the SnapshotMode.
type StageTotal struct {
	Title string          `json:"title" yaml:"title"`
	Total decimal.Decimal `json:"total" yaml:"total"`
}

// SnapshotResult is a stage snapshot with the filters it was computed under.
type SnapshotResult struct {
	Mode    SnapshotMode    `json:"mode" yaml:"mode"`
	Owner   string          `json:"owner,omitempty" yaml:"owner,omitempty"`
	Company string          `json:"company,omitempty" yaml:"company,omitempty"`
	Stages  []StageTotal    `json:"stages" yaml:"stages"`
	Total   decimal.Decimal `json:"total" yaml:"total"`
}

// EvolutionRow holds the window histogram of one catalog stage.
type EvolutionRow struct {
	Title        string            `json:"title" yaml:"title"`
	WindowCounts map[string]int    `json:"window_counts" yaml:"window_counts"`
	WindowItems  map[string][]Deal `json:"window_items" yaml:"window_items"`
	Excluded     int               `json:"excluded" yaml:"excluded"`       // No parseable entry date
	OutOfRange   int               `json:"out_of_range" yaml:"out_of_range"` // Future or older than the widest window
	Total        int               `json:"total" yaml:"total"`
}

// DayBucket is the per-stage entry count of one calendar day.
type DayBucket struct {
	Date   time.Time         `json:"date" yaml:"date"`
	Label  string            `json:"label" yaml:"label"` // DD/MM
	Counts map[string]int    `json:"counts" yaml:"counts"`
	Items  map[string][]Deal `json:"items" yaml:"items"`
}

// UnresolvedStage reports a deal whose current stage matches no catalog entry.
type UnresolvedStage struct {
	DealID   string `json:"deal_id" yaml:"deal_id"`
	DealName string `json:"deal_name" yaml:"deal_name"`
	Stage    string `json:"stage" yaml:"stage"`
}

// DailyEvolution is the month-to-date daily histogram.
type DailyEvolution struct {
	Days       []DayBucket       `json:"days" yaml:"days"`
	Unresolved []UnresolvedStage `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// TransitionPair aggregates every transition between the same two stages on one day.
type TransitionPair struct {
	FromStage      string             `json:"from_stage" yaml:"from_stage"`
	ToStage        string             `json:"to_stage" yaml:"to_stage"`
	Count          int                `json:"count" yaml:"count"`
	Classification Classification     `json:"classification" yaml:"classification"`
	Items          []TransitionRecord `json:"items" yaml:"items"`
}

// TransitionDay groups the transitions of one UTC calendar day.
type TransitionDay struct {
	Date        string           `json:"date" yaml:"date"` // YYYY-MM-DD
	Advances    int              `json:"advances" yaml:"advances"`
	Regressions int              `json:"regressions" yaml:"regressions"`
	Pairs       []TransitionPair `json:"pairs" yaml:"pairs"`
}

// TransitionStats counts log entries that did not become records, by reason.
type TransitionStats struct {
	Scanned      int `json:"scanned" yaml:"scanned"`
	Malformed    int `json:"malformed" yaml:"malformed"`
	OtherField   int `json:"other_field" yaml:"other_field"`
	NoLabels     int `json:"no_labels" yaml:"no_labels"`
	NoItem       int `json:"no_item" yaml:"no_item"`
	BadTimestamp int `json:"bad_timestamp" yaml:"bad_timestamp"`
	Expired      int `json:"expired" yaml:"expired"`
	Duplicates   int `json:"duplicates" yaml:"duplicates"`
}

// TransitionReport is the outcome of one completed reconstruction run.
type TransitionReport struct {
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Days        []TransitionDay    `json:"days" yaml:"days"`
	Records     []TransitionRecord `json:"records" yaml:"records"` // Newest first
	Stats       TransitionStats    `json:"stats" yaml:"stats"`
	Pages       int                `json:"pages" yaml:"pages"`
}
