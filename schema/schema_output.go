package schema

import "time"

// SnapshotRecord is a flat row of a stage snapshot for tabular exports.
type SnapshotRecord struct {
	Stage string  `json:"stage" parquet:"stage,snappy"`
	Mode  string  `json:"mode" parquet:"mode,snappy"`
	Total float64 `json:"total" parquet:"total,snappy"`
}

// EvolutionRecord is a flat (stage, window) cell of the evolution histogram.
type EvolutionRecord struct {
	Stage  string `json:"stage" parquet:"stage,snappy"`
	Window string `json:"window" parquet:"window,snappy"`
	Count  int32  `json:"count" parquet:"count,snappy"`
}

// DailyRecord is a flat (day, stage) cell of the daily histogram.
type DailyRecord struct {
	Date  time.Time `json:"date" parquet:"date,snappy"`
	Label string    `json:"label" parquet:"label,snappy"`
	Stage string    `json:"stage" parquet:"stage,snappy"`
	Count int32     `json:"count" parquet:"count,snappy"`
}

// TransitionExport is a flat transition record for tabular exports.
type TransitionExport struct {
	Day            string    `json:"day" parquet:"day,snappy"`
	LogID          string    `json:"log_id" parquet:"log_id,snappy"`
	ItemID         string    `json:"item_id" parquet:"item_id,snappy"`
	ItemName       string    `json:"item_name" parquet:"item_name,snappy"`
	FromStage      string    `json:"from_stage" parquet:"from_stage,snappy"`
	ToStage        string    `json:"to_stage" parquet:"to_stage,snappy"`
	Timestamp      time.Time `json:"timestamp" parquet:"timestamp,snappy"`
	Classification string    `json:"classification" parquet:"classification,snappy"`
	CurrentStage   string    `json:"current_stage" parquet:"current_stage,snappy"`
	Owner          *string   `json:"owner" parquet:"owner,optional,snappy"`
	ContractValue  *string   `json:"contract_value" parquet:"contract_value,optional,snappy"`
	CloseDate      *string   `json:"close_date" parquet:"close_date,optional,snappy"`
	Performance    *string   `json:"performance" parquet:"performance,optional,snappy"`
}

// FlattenSnapshot turns snapshot totals into export rows, in input order.
func FlattenSnapshot(totals []StageTotal, mode SnapshotMode) []SnapshotRecord {
	out := make([]SnapshotRecord, len(totals))
	for i, t := range totals {
		out[i] = SnapshotRecord{Stage: t.Title, Mode: string(mode), Total: t.Total.InexactFloat64()}
	}
	return out
}

// FlattenEvolution turns evolution rows into one record per (stage, window), windows in the given order.
func FlattenEvolution(rows []EvolutionRow, windowKeys []string) []EvolutionRecord {
	out := make([]EvolutionRecord, 0, len(rows)*len(windowKeys))
	for _, r := range rows {
		for _, w := range windowKeys {
			out = append(out, EvolutionRecord{Stage: r.Title, Window: w, Count: int32(r.WindowCounts[w])})
		}
	}
	return out
}

// FlattenDaily turns the daily histogram into one record per (day, stage), stages in the given order.
func FlattenDaily(d DailyEvolution, stageTitles []string) []DailyRecord {
	out := make([]DailyRecord, 0, len(d.Days)*len(stageTitles))
	for _, day := range d.Days {
		for _, s := range stageTitles {
			out = append(out, DailyRecord{Date: day.Date, Label: day.Label, Stage: s, Count: int32(day.Counts[s])})
		}
	}
	return out
}

// FlattenTransitions turns the report records into export rows, newest first.
func FlattenTransitions(r *TransitionReport) []TransitionExport {
	if r == nil {
		return []TransitionExport{}
	}
	out := make([]TransitionExport, len(r.Records))
	for i, rec := range r.Records {
		out[i] = TransitionExport{
			Day:            rec.Timestamp.UTC().Format("2006-01-02"),
			LogID:          rec.LogID,
			ItemID:         rec.ItemID,
			ItemName:       rec.ItemName,
			FromStage:      rec.FromStage,
			ToStage:        rec.ToStage,
			Timestamp:      rec.Timestamp,
			Classification: string(rec.Classification),
			CurrentStage:   rec.CurrentStage,
			Owner:          rec.Owner,
			ContractValue:  rec.ContractValue,
			CloseDate:      rec.CloseDate,
			Performance:    rec.Performance,
		}
	}
	return out
}
