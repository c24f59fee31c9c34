// Package transition reconstructs classified stage transitions from a paginated change log.
package transition

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/dealflow/core/dates"
	"github.com/huangsam/dealflow/core/stage"
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
)

// Default engine settings.
const (
	DefaultHorizon      = 90 * dates.Day
	DefaultPageLimit    = 200
	DefaultPageDelay    = 2 * time.Second
	DefaultTrackedField = "status6__1"
	defaultItemName     = "Item"
)

// State is a step of the reconstruction state machine.
type State int

// Reconstruction states.
const (
	Idle State = iota
	Fetching
	Accumulating
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Accumulating:
		return "accumulating"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Observer is notified of each state change. Page is the page being fetched or accumulated.
type Observer func(state State, page int)

// Options controls a reconstruction run. Zero values take the defaults.
type Options struct {
	Horizon      time.Duration
	PageLimit    int
	PageDelay    time.Duration // Negative disables pacing
	MaxPages     int
	TrackedField string
	Now          func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Horizon <= 0 {
		o.Horizon = DefaultHorizon
	}
	if o.PageLimit <= 0 {
		o.PageLimit = DefaultPageLimit
	}
	if o.PageDelay == 0 {
		o.PageDelay = DefaultPageDelay
	}
	if o.TrackedField == "" {
		o.TrackedField = DefaultTrackedField
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Engine turns change-log pages into a TransitionReport.
type Engine struct {
	fetcher contract.LogFetcher
	opts    Options
}

// NewEngine creates an engine reading pages from fetcher.
func NewEngine(fetcher contract.LogFetcher, opts Options) *Engine {
	return &Engine{fetcher: fetcher, opts: opts.withDefaults()}
}

// Options returns the effective options of the engine.
func (e *Engine) Options() Options { return e.opts }

// Run fetches every page within the horizon and builds the report, enriched from deals.
// A cancelled context or a failed page aborts the run and no partial report is returned.
func (e *Engine) Run(ctx context.Context, deals []schema.Deal, observe Observer) (*schema.TransitionReport, error) {
	scan, err := e.Scan(ctx, observe)
	if err != nil {
		return nil, err
	}
	return scan.Report(deals), nil
}

// Scan is the accumulated outcome of a page loop, not yet enriched.
type Scan struct {
	b     *builder
	now   time.Time
	pages int
}

// Pages returns how many pages the scan read.
func (s *Scan) Pages() int { return s.pages }

// Report enriches the scanned transitions from deals and groups them by day.
// It can be called more than once; every call returns a fresh report.
func (s *Scan) Report(deals []schema.Deal) *schema.TransitionReport {
	report := s.b.report(s.now, deals)
	report.Pages = s.pages
	return report
}

// Scan fetches every page within the horizon and accumulates the transitions found.
// Deals are not needed until Report, so callers may fetch them concurrently.
func (e *Engine) Scan(ctx context.Context, observe Observer) (*Scan, error) {
	if observe == nil {
		observe = func(State, int) {}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	now := e.opts.Now().UTC()
	b := newBuilder(e.opts.TrackedField, now.Add(-e.opts.Horizon))

	base := schema.LogQuery{Since: now.Add(-e.opts.Horizon), Until: now, Field: e.opts.TrackedField}
	pages := StreamPages(ctx, e.fetcher, base, StreamOptions{
		Limit:    e.opts.PageLimit,
		Delay:    max(e.opts.PageDelay, 0),
		MaxPages: e.opts.MaxPages,
	})

	observe(Fetching, 1)
	count := 0
	for p := range pages {
		if p.Err != nil {
			observe(Aborted, p.Number)
			return nil, fmt.Errorf("fetch log page %d: %w", p.Number, p.Err)
		}
		observe(Accumulating, p.Number)
		count = p.Number
		for _, entry := range p.Entries {
			b.add(entry)
		}
		observe(Fetching, p.Number+1)
	}
	if err := ctx.Err(); err != nil {
		observe(Aborted, count)
		return nil, fmt.Errorf("transition run aborted: %w", err)
	}

	observe(Done, count)
	return &Scan{b: b, now: now, pages: count}, nil
}

// Classify returns Advance when next is strictly deeper in the pipeline than prev.
// Equal tiers and unknown stages are Regression.
func Classify(prev, next string) schema.Classification {
	pt, okPrev := stage.TierOf(prev)
	nt, okNext := stage.TierOf(next)
	if okPrev && okNext && nt > pt {
		return schema.Advance
	}
	return schema.Regression
}

// builder accumulates records across pages.
type builder struct {
	field   string
	cutoff  time.Time
	seen    map[string]struct{}
	records []schema.TransitionRecord
	stats   schema.TransitionStats
}

func newBuilder(field string, cutoff time.Time) *builder {
	return &builder{field: field, cutoff: cutoff, seen: make(map[string]struct{})}
}

func (b *builder) add(entry schema.RawLogEntry) {
	b.stats.Scanned++
	if entry.ID == "" {
		b.stats.Malformed++
		return
	}
	p, err := parsePayload(entry.RawPayload)
	if err != nil {
		b.stats.Malformed++
		return
	}
	p.fillFromEntity(entry.Entity)
	if p.field != "" && p.field != b.field {
		b.stats.OtherField++
		return
	}
	if p.previous == "" || p.next == "" {
		b.stats.NoLabels++
		return
	}
	rec := schema.TransitionRecord{
		LogID:          entry.ID,
		FromStage:      p.previous,
		ToStage:        p.next,
		Classification: Classify(p.previous, p.next),
	}
	if p.itemID == "" {
		b.stats.NoItem++
		return
	}
	rec.ItemID = p.itemID
	rec.ItemName = p.itemName
	if rec.ItemName == "" {
		rec.ItemName = defaultItemName
	}
	ts, ok := dates.DecodeTicks(entry.CreatedAtEncoded)
	if !ok {
		b.stats.BadTimestamp++
		return
	}
	rec.Timestamp = ts
	if ts.Before(b.cutoff) {
		b.stats.Expired++
		return
	}
	if _, dup := b.seen[rec.LogID]; dup {
		b.stats.Duplicates++
		return
	}
	b.seen[rec.LogID] = struct{}{}
	b.records = append(b.records, rec)
}

func (b *builder) report(now time.Time, deals []schema.Deal) *schema.TransitionReport {
	index := make(map[string]schema.Deal, len(deals))
	for _, d := range deals {
		index[d.ID] = d
	}
	records := sortNewestFirst(b.records)
	for i := range records {
		enrich(&records[i], index)
	}
	return &schema.TransitionReport{
		GeneratedAt: now,
		Days:        Group(records),
		Records:     records,
		Stats:       b.stats,
	}
}

// enrich copies owner, contract value, close date and performance from the matching deal.
func enrich(rec *schema.TransitionRecord, deals map[string]schema.Deal) {
	d, ok := deals[rec.ItemID]
	if !ok {
		rec.CurrentStage = rec.ToStage
		return
	}
	rec.CurrentStage = d.Stage
	rec.Owner = &d.Owner
	rec.ContractValue = &d.ContractValue
	rec.CloseDate = &d.CloseDate
	rec.Performance = &d.Performance
}
