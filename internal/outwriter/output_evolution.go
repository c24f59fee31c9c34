package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/dealflow/core/agg"
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
)

// windowKeys returns the evolution window keys in ascending order.
func windowKeys() []string {
	windows := agg.Windows()
	keys := make([]string, len(windows))
	for i, w := range windows {
		keys[i] = w.Key
	}
	return keys
}

// PrintEvolutionResults writes the evolution windows to stdout or the configured output file.
func PrintEvolutionResults(rows []schema.EvolutionRow, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteEvolutionResults(w, rows, cfg, duration)
	}, fmt.Sprintf("Wrote %s evolution results", cfg.Output))
}

// WriteEvolutionResults outputs the evolution windows, dispatching based on the output format configured.
func WriteEvolutionResults(w io.Writer, rows []schema.EvolutionRow, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, rows)
	case schema.YAMLOut:
		return writeYAML(w, rows)
	case schema.ParquetOut:
		return writeParquet(w, schema.FlattenEvolution(rows, windowKeys()))
	case schema.CSVOut:
		if err := writeCSVResultsForEvolution(w, rows); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	default:
		if err := writeEvolutionTable(w, rows, duration); err != nil {
			return fmt.Errorf("error writing evolution table output: %w", err)
		}
		return nil
	}
}

func writeCSVResultsForEvolution(w io.Writer, rows []schema.EvolutionRow) error {
	return writeCSVWithHeader(w, []string{"stage", "window", "count"}, func(cw *csv.Writer) error {
		for _, r := range schema.FlattenEvolution(rows, windowKeys()) {
			if err := cw.Write([]string{r.Stage, r.Window, strconv.Itoa(int(r.Count))}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeEvolutionTable(w io.Writer, rows []schema.EvolutionRow, duration time.Duration) error {
	keys := windowKeys()
	headers := []string{"Stage"}
	for _, k := range keys {
		headers = append(headers, k+"d")
	}
	headers = append(headers, "No Date", "Out of Range", "Total")

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{r.Title}
		for _, k := range keys {
			row = append(row, formatCount(r.WindowCounts[k]))
		}
		row = append(row, formatCount(r.Excluded), formatCount(r.OutOfRange), formatCount(r.Total))
		data = append(data, row)
	}

	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Evolution completed in %v\n", duration)
	return nil
}
