package agg

import (
	"github.com/huangsam/dealflow/core/stage"
	"github.com/huangsam/dealflow/schema"
	"github.com/shopspring/decimal"
)

// SnapshotOptions controls a stage snapshot.
type SnapshotOptions struct {
	Filter
	Mode schema.SnapshotMode // CountMode (default) or ValueMode
}

// Snapshot totals the active deals per catalog stage, in catalog order.
// Every stage is present, zero-filled when nothing matches.
func Snapshot(deals []schema.Deal, opts SnapshotOptions) []schema.StageTotal {
	entries := stage.Entries()
	index := make(map[string]int, len(entries))
	out := make([]schema.StageTotal, len(entries))
	for i, e := range entries {
		index[e.Title] = i
		out[i] = schema.StageTotal{Title: e.Title, Total: decimal.Zero}
	}

	for _, d := range deals {
		if d.Status != schema.StatusActive || !opts.Match(d) {
			continue
		}
		i, ok := index[stageTitle(d)]
		if !ok {
			continue
		}
		if opts.Mode == schema.ValueMode {
			v, _ := ParseContractValue(d.ContractValue)
			if v.IsNegative() {
				// Credits contribute nothing; stage totals stay non-negative.
				continue
			}
			out[i].Total = out[i].Total.Add(v)
			continue
		}
		out[i].Total = out[i].Total.Add(decimal.NewFromInt(1))
	}
	return out
}
