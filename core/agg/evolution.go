package agg

import (
	"time"

	"github.com/huangsam/dealflow/core/dates"
	"github.com/huangsam/dealflow/core/stage"
	"github.com/huangsam/dealflow/schema"
)

// Window is an inclusive range of whole days elapsed since a deal entered its stage.
type Window struct {
	Key      string
	From, To int
}

// windows are disjoint and checked in ascending order.
var windows = []Window{
	{Key: "0-7", From: 0, To: 7},
	{Key: "8-14", From: 8, To: 14},
	{Key: "15-21", From: 15, To: 21},
	{Key: "22-30", From: 22, To: 30},
	{Key: "31-60", From: 31, To: 60},
	{Key: "61-90", From: 61, To: 90},
}

// Windows returns the evolution windows in ascending order.
func Windows() []Window {
	out := make([]Window, len(windows))
	copy(out, windows)
	return out
}

// WindowFor returns the first window containing days.
func WindowFor(days int) (Window, bool) {
	for _, w := range windows {
		if days >= w.From && days <= w.To {
			return w, true
		}
	}
	return Window{}, false
}

// EvolutionOptions controls the evolution window aggregation.
type EvolutionOptions struct {
	Owner string
	Now   time.Time // Anchor for elapsed days; zero means time.Now()
}

// Evolution buckets every deal by how long it has been in its current stage.
// Rows follow catalog order and every window key is present in every row.
func Evolution(deals []schema.Deal, opts EvolutionOptions) []schema.EvolutionRow {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := dates.Midnight(now)
	filter := Filter{Owner: opts.Owner}

	entries := stage.Entries()
	out := make([]schema.EvolutionRow, 0, len(entries))
	for _, e := range entries {
		row := schema.EvolutionRow{
			Title:        e.Title,
			WindowCounts: make(map[string]int, len(windows)),
			WindowItems:  make(map[string][]schema.Deal, len(windows)),
		}
		for _, w := range windows {
			row.WindowCounts[w.Key] = 0
			row.WindowItems[w.Key] = []schema.Deal{}
		}

		for _, d := range deals {
			if !inStage(d, e.Title) || !filter.Match(d) {
				continue
			}
			row.Total++
			entered, ok := entryDate(d, e)
			if !ok {
				row.Excluded++
				continue
			}
			w, ok := WindowFor(dates.DaysBetween(today, entered))
			if !ok {
				row.OutOfRange++
				continue
			}
			row.WindowCounts[w.Key]++
			row.WindowItems[w.Key] = append(row.WindowItems[w.Key], d)
		}
		out = append(out, row)
	}
	return out
}
