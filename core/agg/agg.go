// Package agg has the pure aggregators over deal records: stage snapshot,
// evolution windows and the month-to-date daily histogram.
package agg

import (
	"strings"
	"time"

	"github.com/huangsam/dealflow/core/dates"
	"github.com/huangsam/dealflow/core/stage"
	"github.com/huangsam/dealflow/schema"
)

// Filter narrows a deal set by exact owner and company. Empty fields match everything.
type Filter struct {
	Owner   string
	Company string
}

// Match reports whether d passes the filter.
func (f Filter) Match(d schema.Deal) bool {
	if f.Owner != "" && d.Owner != f.Owner {
		return false
	}
	if f.Company != "" && d.Company != f.Company {
		return false
	}
	return true
}

// stageTitle is the deal's stage as compared against catalog titles.
// Every aggregator matches on it so padded board values land in the same stage.
func stageTitle(d schema.Deal) string {
	return strings.TrimSpace(d.Stage)
}

// inStage reports whether the deal currently sits in the given catalog title.
func inStage(d schema.Deal, title string) bool {
	return stageTitle(d) == title
}

// entryDate resolves the date a deal entered the stage with the given key.
func entryDate(d schema.Deal, e stage.Entry) (time.Time, bool) {
	raw, ok := d.StageEntryDates[e.Key]
	if !ok {
		return time.Time{}, false
	}
	return dates.ParseText(raw)
}
