// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSnapshot prints a stage snapshot using the configured output format.
func (ow *OutWriter) WriteSnapshot(result schema.SnapshotResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSnapshotResults(result, cfg, duration)
}

// WriteEvolution prints the evolution windows using the configured output format.
func (ow *OutWriter) WriteEvolution(rows []schema.EvolutionRow, cfg *contract.Config, duration time.Duration) error {
	return PrintEvolutionResults(rows, cfg, duration)
}

// WriteDaily prints the month-to-date daily histogram using the configured output format.
func (ow *OutWriter) WriteDaily(daily schema.DailyEvolution, cfg *contract.Config, duration time.Duration) error {
	return PrintDailyResults(daily, cfg, duration)
}

// WriteTransitions prints a transition report using the configured output format.
func (ow *OutWriter) WriteTransitions(report *schema.TransitionReport, cfg *contract.Config, duration time.Duration) error {
	return PrintTransitionResults(report, cfg, duration)
}

// WriteCacheStatus prints the fetch cache status using the configured output format.
func (ow *OutWriter) WriteCacheStatus(status schema.CacheStatus, cfg *contract.Config) error {
	return PrintCacheStatus(status, cfg)
}
