package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
)

// PrintTransitionResults writes the transition report to stdout or the configured output file.
func PrintTransitionResults(report *schema.TransitionReport, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteTransitionResults(w, report, cfg, duration)
	}, fmt.Sprintf("Wrote %s transition results", cfg.Output))
}

// WriteTransitionResults outputs the transition report, dispatching based on the output format configured.
func WriteTransitionResults(w io.Writer, report *schema.TransitionReport, cfg *contract.Config, duration time.Duration) error {
	if report == nil {
		report = &schema.TransitionReport{}
	}
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, report)
	case schema.YAMLOut:
		return writeYAML(w, report)
	case schema.ParquetOut:
		return writeParquet(w, schema.FlattenTransitions(report))
	case schema.CSVOut:
		if err := writeCSVResultsForTransitions(w, report); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	default:
		if err := writeTransitionTable(w, report, cfg, duration); err != nil {
			return fmt.Errorf("error writing transition table output: %w", err)
		}
		return nil
	}
}

// optional renders a nullable enrichment field for CSV.
func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeCSVResultsForTransitions(w io.Writer, report *schema.TransitionReport) error {
	header := []string{
		"day", "log_id", "item_id", "item_name", "from_stage", "to_stage", "timestamp",
		"classification", "current_stage", "owner", "contract_value", "close_date", "performance",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range schema.FlattenTransitions(report) {
			row := []string{
				r.Day,
				r.LogID,
				r.ItemID,
				r.ItemName,
				r.FromStage,
				r.ToStage,
				r.Timestamp.UTC().Format(contract.DateTimeFormat),
				r.Classification,
				r.CurrentStage,
				optional(r.Owner),
				optional(r.ContractValue),
				optional(r.CloseDate),
				optional(r.Performance),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// pairItems lists the deal names of a pair, shortened to the available width.
func pairItems(items []schema.TransitionRecord, maxWidth int) string {
	names := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.ItemID]; ok {
			continue
		}
		seen[it.ItemID] = struct{}{}
		names = append(names, it.ItemName)
	}
	return truncateName(strings.Join(names, ", "), maxWidth)
}

func writeTransitionTable(w io.Writer, report *schema.TransitionReport, cfg *contract.Config, duration time.Duration) error {
	// Date + From + To + Count + Classification with padding
	maxItems := getMaxTableNameWidth(cfg, 90)
	label := func(c schema.Classification) string { return string(c) }
	if cfg.UseColors {
		label = contract.GetColorLabel
	}

	var data [][]string
	advances, regressions := 0, 0
	for _, day := range report.Days {
		advances += day.Advances
		regressions += day.Regressions
		for _, p := range day.Pairs {
			data = append(data, []string{
				day.Date,
				p.FromStage,
				p.ToStage,
				formatCount(p.Count),
				label(p.Classification),
				pairItems(p.Items, maxItems),
			})
		}
	}

	if err := renderTable(w, []string{"Date", "From", "To", "Count", "Classification", "Deals"}, data); err != nil {
		return err
	}

	header := colorizer(cfg.UseColors)
	s := report.Stats
	_, _ = fmt.Fprintf(w, "%s %s advances, %s regressions over %s records\n",
		header("Transitions:"), formatCount(advances), formatCount(regressions), formatCount(len(report.Records)))
	_, _ = fmt.Fprintf(w, "%s %s entries in %s pages (malformed %d, other field %d, no labels %d, no item %d, bad timestamp %d, expired %d, duplicates %d)\n",
		header("Scanned:"), formatCount(s.Scanned), formatCount(report.Pages),
		s.Malformed, s.OtherField, s.NoLabels, s.NoItem, s.BadTimestamp, s.Expired, s.Duplicates)
	_, _ = fmt.Fprintf(w, "Transition reconstruction completed in %v\n", duration)
	return nil
}
