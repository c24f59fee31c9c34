package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/dealflow/core/agg"
	"github.com/huangsam/dealflow/core/transition"
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// clock is swapped in tests.
var clock = time.Now

func fetchDeals(ctx context.Context, src Sources) ([]schema.Deal, error) {
	deals, err := src.Deals.FetchDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch deals: %w", err)
	}
	return deals, nil
}

// BuildSnapshot fetches deals and totals the active ones per stage.
func BuildSnapshot(ctx context.Context, cfg *contract.Config, src Sources) (schema.SnapshotResult, error) {
	deals, err := fetchDeals(ctx, src)
	if err != nil {
		return schema.SnapshotResult{}, err
	}
	mode := cfg.Mode
	if mode == "" {
		mode = schema.CountMode
	}
	stages := agg.Snapshot(deals, agg.SnapshotOptions{
		Filter: agg.Filter{Owner: cfg.Owner, Company: cfg.Company},
		Mode:   mode,
	})
	total := decimal.Zero
	for _, s := range stages {
		total = total.Add(s.Total)
	}
	return schema.SnapshotResult{Mode: mode, Owner: cfg.Owner, Company: cfg.Company, Stages: stages, Total: total}, nil
}

// BuildEvolution fetches deals and buckets them by time in their current stage.
func BuildEvolution(ctx context.Context, cfg *contract.Config, src Sources) ([]schema.EvolutionRow, error) {
	deals, err := fetchDeals(ctx, src)
	if err != nil {
		return nil, err
	}
	return agg.Evolution(deals, agg.EvolutionOptions{Owner: cfg.Owner, Now: clock()}), nil
}

// BuildDaily fetches deals and counts stage entries per day of the current month.
func BuildDaily(ctx context.Context, cfg *contract.Config, src Sources) (schema.DailyEvolution, error) {
	deals, err := fetchDeals(ctx, src)
	if err != nil {
		return schema.DailyEvolution{}, err
	}
	return agg.Daily(deals, agg.DailyOptions{Owner: cfg.Owner, Now: clock()}), nil
}

// EngineOptions maps the configuration onto transition engine options.
func EngineOptions(cfg *contract.Config) transition.Options {
	delay := cfg.PageDelay
	if delay == 0 {
		delay = -1 // Pacing explicitly disabled
	}
	return transition.Options{
		Horizon:      cfg.Horizon,
		PageLimit:    cfg.LogPageLimit,
		PageDelay:    delay,
		MaxPages:     cfg.MaxPages,
		TrackedField: cfg.TrackedField,
		Now:          clock,
	}
}

// BuildTransitions scans the change log and fetches deals concurrently,
// then enriches the scanned transitions with the current deals.
// Either failure cancels the other and no partial report is returned.
func BuildTransitions(ctx context.Context, cfg *contract.Config, src Sources, observe transition.Observer) (*schema.TransitionReport, error) {
	engine := transition.NewEngine(src.Logs, EngineOptions(cfg))

	var (
		deals []schema.Deal
		scan  *transition.Scan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deals, err = fetchDeals(gctx, src)
		return err
	})
	g.Go(func() error {
		var err error
		scan, err = engine.Scan(gctx, observe)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scan.Report(deals), nil
}
