// Package schema has the models and result types shared by every part of dealflow.
package schema

import (
	"encoding/json"
	"time"
)

// Deal is one record of the sales pipeline as delivered by a fetcher.
// Monetary and date fields keep the source text; the aggregators parse them.
type Deal struct {
	ID              string            `json:"id" yaml:"id"`
	Name            string            `json:"name" yaml:"name"`
	Status          string            `json:"status" yaml:"status"`
	Stage           string            `json:"stage" yaml:"stage"`
	Owner           string            `json:"owner,omitempty" yaml:"owner,omitempty"`
	Company         string            `json:"company,omitempty" yaml:"company,omitempty"`
	ContractValue   string            `json:"contract_value,omitempty" yaml:"contract_value,omitempty"`
	MonthlyValue    string            `json:"monthly_value,omitempty" yaml:"monthly_value,omitempty"`
	CloseDate       string            `json:"close_date,omitempty" yaml:"close_date,omitempty"`
	Performance     string            `json:"performance,omitempty" yaml:"performance,omitempty"`
	StageEntryDates map[string]string `json:"stage_entry_dates,omitempty" yaml:"stage_entry_dates,omitempty"` // stage key -> raw date text
}

// RawLogEntry is one unparsed change-log entry for the stage-tracking field.
// RawPayload is either a JSON object or a JSON string holding serialized JSON.
type RawLogEntry struct {
	ID               string          `json:"id"`
	CreatedAtEncoded string          `json:"created_at"`
	RawPayload       json.RawMessage `json:"data"`
	Entity           json.RawMessage `json:"entity,omitempty"` // the item the entry belongs to, when the source reports it
}

// LogQuery asks a LogFetcher for one page of change-log entries.
type LogQuery struct {
	Page  int       // 1-based page number
	Limit int       // Maximum entries per page
	Since time.Time // Inclusive lower bound on entry creation
	Until time.Time // Inclusive upper bound on entry creation
	Field string    // Identifier of the tracked stage field
}

// TransitionRecord is a classified stage change reconstructed from the change log.
// Enrichment fields are nil when no current deal matches ItemID.
type TransitionRecord struct {
	LogID          string         `json:"log_id" yaml:"log_id"`
	ItemID         string         `json:"item_id" yaml:"item_id"`
	ItemName       string         `json:"item_name" yaml:"item_name"`
	FromStage      string         `json:"from_stage" yaml:"from_stage"`
	ToStage        string         `json:"to_stage" yaml:"to_stage"`
	Timestamp      time.Time      `json:"timestamp" yaml:"timestamp"`
	Classification Classification `json:"classification" yaml:"classification"`
	CurrentStage   string         `json:"current_stage" yaml:"current_stage"`
	Owner          *string        `json:"owner" yaml:"owner"`
	ContractValue  *string        `json:"contract_value" yaml:"contract_value"`
	CloseDate      *string        `json:"close_date" yaml:"close_date"`
	Performance    *string        `json:"performance" yaml:"performance"`
}
