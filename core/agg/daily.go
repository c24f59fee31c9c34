package agg

import (
	"time"

	"github.com/huangsam/dealflow/core/stage"
	"github.com/huangsam/dealflow/schema"
)

// DailyOptions controls the month-to-date daily histogram.
type DailyOptions struct {
	Owner string
	Now   time.Time // Selects the month; zero means time.Now()
}

// Daily counts stage entries per calendar day of the current UTC month.
// Every day of the month is present, future days included, with every stage at zero.
// Deals whose current stage cannot be resolved are reported in Unresolved.
func Daily(deals []schema.Deal, opts DailyOptions) schema.DailyEvolution {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	titles := stage.Titles()
	out := schema.DailyEvolution{Days: make([]schema.DayBucket, daysInMonth)}
	for i := range out.Days {
		day := first.AddDate(0, 0, i)
		bucket := schema.DayBucket{
			Date:   day,
			Label:  day.Format("02/01"),
			Counts: make(map[string]int, len(titles)),
			Items:  make(map[string][]schema.Deal, len(titles)),
		}
		for _, t := range titles {
			bucket.Counts[t] = 0
			bucket.Items[t] = []schema.Deal{}
		}
		out.Days[i] = bucket
	}

	filter := Filter{Owner: opts.Owner}
	for _, d := range deals {
		if !filter.Match(d) {
			continue
		}
		e, ok := stage.Resolve(d.Stage)
		if !ok {
			out.Unresolved = append(out.Unresolved, schema.UnresolvedStage{DealID: d.ID, DealName: d.Name, Stage: d.Stage})
			continue
		}
		entered, ok := entryDate(d, e)
		if !ok || entered.Year() != first.Year() || entered.Month() != first.Month() {
			continue
		}
		b := &out.Days[entered.Day()-1]
		b.Counts[e.Title]++
		b.Items[e.Title] = append(b.Items[e.Title], d)
	}
	return out
}
