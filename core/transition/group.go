package transition

import (
	"cmp"
	"slices"

	"github.com/huangsam/dealflow/schema"
)

// dayLayout keys transition days by UTC calendar date.
const dayLayout = "2006-01-02"

// sortNewestFirst returns a sorted copy, newest first, ties broken by log id.
func sortNewestFirst(records []schema.TransitionRecord) []schema.TransitionRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []schema.TransitionRecord{}
	}
	slices.SortStableFunc(out, func(a, b schema.TransitionRecord) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.LogID, b.LogID)
	})
	return out
}

// Group buckets records by UTC day, most recent day first, then by (from, to) pair.
// Pairs are ordered by count descending, then by stage names.
func Group(records []schema.TransitionRecord) []schema.TransitionDay {
	type pairKey struct{ from, to string }
	type dayAcc struct {
		day   schema.TransitionDay
		pairs map[pairKey]*schema.TransitionPair
		order []pairKey
	}

	days := map[string]*dayAcc{}
	for _, r := range sortNewestFirst(records) {
		key := r.Timestamp.UTC().Format(dayLayout)
		acc, ok := days[key]
		if !ok {
			acc = &dayAcc{day: schema.TransitionDay{Date: key}, pairs: map[pairKey]*schema.TransitionPair{}}
			days[key] = acc
		}
		if r.Classification == schema.Advance {
			acc.day.Advances++
		} else {
			acc.day.Regressions++
		}

		pk := pairKey{r.FromStage, r.ToStage}
		pair, ok := acc.pairs[pk]
		if !ok {
			pair = &schema.TransitionPair{FromStage: r.FromStage, ToStage: r.ToStage, Classification: r.Classification}
			acc.pairs[pk] = pair
			acc.order = append(acc.order, pk)
		}
		pair.Count++
		pair.Items = append(pair.Items, r)
	}

	out := make([]schema.TransitionDay, 0, len(days))
	for _, acc := range days {
		for _, pk := range acc.order {
			acc.day.Pairs = append(acc.day.Pairs, *acc.pairs[pk])
		}
		slices.SortStableFunc(acc.day.Pairs, func(a, b schema.TransitionPair) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			if c := cmp.Compare(a.FromStage, b.FromStage); c != 0 {
				return c
			}
			return cmp.Compare(a.ToStage, b.ToStage)
		})
		out = append(out, acc.day)
	}
	slices.SortFunc(out, func(a, b schema.TransitionDay) int {
		return cmp.Compare(b.Date, a.Date)
	})
	return out
}
