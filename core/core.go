// Package core has the orchestration logic: fetch deals and change logs, aggregate and write results.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/dealflow/core/transition"
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/internal/outwriter"
)

// ExecutorFunc defines the function signature for executing different result commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteSnapshot computes the stage snapshot and prints it.
// It serves as the main entry point for the 'snapshot' command.
func ExecuteSnapshot(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	src, err := NewSources(cfg, mgr)
	if err != nil {
		return err
	}
	result, err := BuildSnapshot(ctx, cfg, src)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSnapshot(result, cfg, time.Since(start))
}

// ExecuteEvolution computes the evolution windows and prints them.
// It serves as the main entry point for the 'evolution' command.
func ExecuteEvolution(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	src, err := NewSources(cfg, mgr)
	if err != nil {
		return err
	}
	rows, err := BuildEvolution(ctx, cfg, src)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteEvolution(rows, cfg, time.Since(start))
}

// ExecuteDaily computes the month-to-date daily histogram and prints it.
// Deals whose stage is outside the catalog are reported as warnings.
func ExecuteDaily(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	src, err := NewSources(cfg, mgr)
	if err != nil {
		return err
	}
	daily, err := BuildDaily(ctx, cfg, src)
	if err != nil {
		return err
	}
	for _, u := range daily.Unresolved {
		contract.LogWarn("unresolved stage", fmt.Errorf("deal %s (%s) has stage %q", u.DealID, u.DealName, u.Stage))
	}
	return outwriter.NewOutWriter().WriteDaily(daily, cfg, time.Since(start))
}

// ExecuteTransitions reconstructs the transition report and prints it.
// Page progress goes to stderr.
func ExecuteTransitions(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	src, err := NewSources(cfg, mgr)
	if err != nil {
		return err
	}
	report, err := BuildTransitions(ctx, cfg, src, logProgress)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTransitions(report, cfg, time.Since(start))
}

// logProgress reports page-level progress of a reconstruction run.
func logProgress(state transition.State, page int) {
	switch state {
	case transition.Accumulating:
		contract.LogInfo("🔎 Read change log page %d", page)
	case transition.Done:
		contract.LogInfo("✅ Scanned %d change log pages", page)
	case transition.Aborted:
		contract.LogInfo("⛔ Aborted at change log page %d", page)
	}
}
