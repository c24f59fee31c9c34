package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/dealflow/core/stage"
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
)

// PrintDailyResults writes the daily histogram to stdout or the configured output file.
func PrintDailyResults(daily schema.DailyEvolution, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteDailyResults(w, daily, cfg, duration)
	}, fmt.Sprintf("Wrote %s daily results", cfg.Output))
}

// WriteDailyResults outputs the daily histogram, dispatching based on the output format configured.
func WriteDailyResults(w io.Writer, daily schema.DailyEvolution, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, daily)
	case schema.YAMLOut:
		return writeYAML(w, daily)
	case schema.ParquetOut:
		return writeParquet(w, schema.FlattenDaily(daily, stage.Titles()))
	case schema.CSVOut:
		if err := writeCSVResultsForDaily(w, daily); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	default:
		if err := writeDailyTable(w, daily, cfg, duration); err != nil {
			return fmt.Errorf("error writing daily table output: %w", err)
		}
		return nil
	}
}

func writeCSVResultsForDaily(w io.Writer, daily schema.DailyEvolution) error {
	return writeCSVWithHeader(w, []string{"date", "label", "stage", "count"}, func(cw *csv.Writer) error {
		for _, r := range schema.FlattenDaily(daily, stage.Titles()) {
			row := []string{r.Date.Format(time.DateOnly), r.Label, r.Stage, strconv.Itoa(int(r.Count))}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeDailyTable prints one row per day with a column per stage, headed by stage keys to stay narrow.
func writeDailyTable(w io.Writer, daily schema.DailyEvolution, cfg *contract.Config, duration time.Duration) error {
	entries := stage.Entries()
	headers := []string{"Day"}
	for _, e := range entries {
		headers = append(headers, e.Key)
	}
	headers = append(headers, "Total")

	data := make([][]string, 0, len(daily.Days))
	for _, d := range daily.Days {
		row := []string{d.Label}
		total := 0
		for _, e := range entries {
			n := d.Counts[e.Title]
			total += n
			row = append(row, formatCount(n))
		}
		row = append(row, formatCount(total))
		data = append(data, row)
	}

	if err := renderTable(w, headers, data); err != nil {
		return err
	}

	if n := len(daily.Unresolved); n > 0 {
		header := colorizer(cfg.UseColors)
		_, _ = fmt.Fprintf(w, "%s %s deals with a stage outside the catalog\n", header("Unresolved:"), formatCount(n))
	}
	_, _ = fmt.Fprintf(w, "Daily evolution completed in %v\n", duration)
	return nil
}
