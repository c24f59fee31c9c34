// Package stage defines the fixed catalog of pipeline stages, their internal keys and their tiers.
package stage

import "strings"

// Entry is one stage of the sales pipeline.
type Entry struct {
	Title string // Human-facing name, as it appears on the board
	Key   string // Internal key used to look up stage entry dates
	Tier  int    // Pipeline depth; higher is further along, 0 is off-pipeline
}

// catalog is the single source of truth for stage titles, keys and tiers.
// Its order is the presentation order of every per-stage result.
var catalog = []Entry{
	{Title: "Prospect - 25%", Key: "prospect", Tier: 1},
	{Title: "Opportunity - 50%", Key: "opportunity", Tier: 2},
	{Title: "Forecast - 75%", Key: "forecast", Tier: 3},
	{Title: "Forecast - 90%", Key: "forecast90", Tier: 4},
	{Title: "Signed Contract - 100%", Key: "contract", Tier: 5},
	{Title: "One-off Engagement - 100%", Key: "oneoff", Tier: 5},
	{Title: "Pro-bono Engagement", Key: "probono", Tier: 5},
	{Title: "On-hold", Key: "onhold", Tier: 0},
	{Title: "Closed/Declined", Key: "closed", Tier: 0},
}

var (
	byTitle = make(map[string]Entry, len(catalog))
	byKey   = make(map[string]Entry, len(catalog))
	byFold  = make(map[string]Entry, 2*len(catalog))
)

func init() {
	for _, e := range catalog {
		byTitle[e.Title] = e
		byKey[e.Key] = e
		byFold[fold(e.Title)] = e
		byFold[fold(e.Key)] = e
	}
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Entries returns a copy of the catalog in presentation order.
func Entries() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Titles returns the stage titles in presentation order.
func Titles() []string {
	out := make([]string, len(catalog))
	for i, e := range catalog {
		out[i] = e.Title
	}
	return out
}

// Len returns the number of stages in the catalog.
func Len() int { return len(catalog) }

// Lookup returns the entry whose title is exactly title.
func Lookup(title string) (Entry, bool) {
	e, ok := byTitle[title]
	return e, ok
}

// KeyOf returns the internal key of an exact stage title.
func KeyOf(title string) (string, bool) {
	e, ok := byTitle[title]
	return e.Key, ok
}

// TierOf returns the tier of an exact stage title.
func TierOf(title string) (int, bool) {
	e, ok := byTitle[title]
	return e.Tier, ok
}

// Resolve maps a free-form stage name to a catalog entry.
// It tries the exact title, then the exact key, then a trimmed case-insensitive
// match on either, with inner whitespace collapsed.
func Resolve(name string) (Entry, bool) {
	if e, ok := byTitle[name]; ok {
		return e, true
	}
	if e, ok := byKey[name]; ok {
		return e, true
	}
	e, ok := byFold[fold(name)]
	return e, ok
}
