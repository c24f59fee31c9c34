package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend" yaml:"backend"`
	Connected       bool      `json:"connected" yaml:"connected"`
	TotalEntries    int       `json:"total_entries" yaml:"total_entries"`
	DealEntries     int       `json:"deal_entries" yaml:"deal_entries"`
	LogPageEntries  int       `json:"log_page_entries" yaml:"log_page_entries"`
	LastEntryTime   time.Time `json:"last_entry_time" yaml:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time" yaml:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes" yaml:"table_size_bytes"`
}
