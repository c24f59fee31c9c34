package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
	"github.com/shopspring/decimal"
)

// PrintSnapshotResults writes the snapshot to stdout or the configured output file.
func PrintSnapshotResults(result schema.SnapshotResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSnapshotResults(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s snapshot results", cfg.Output))
}

// WriteSnapshotResults outputs the snapshot, dispatching based on the output format configured.
func WriteSnapshotResults(w io.Writer, result schema.SnapshotResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.YAMLOut:
		return writeYAML(w, result)
	case schema.ParquetOut:
		return writeParquet(w, schema.FlattenSnapshot(result.Stages, result.Mode))
	case schema.CSVOut:
		if err := writeCSVResultsForSnapshot(w, result, cfg.Precision); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	default:
		if err := writeSnapshotTable(w, result, cfg, duration); err != nil {
			return fmt.Errorf("error writing snapshot table output: %w", err)
		}
		return nil
	}
}

// formatSnapshotTotal renders a total as a count or an amount depending on the mode.
func formatSnapshotTotal(total decimal.Decimal, mode schema.SnapshotMode, precision int) string {
	if mode == schema.ValueMode {
		return formatAmount(total, precision)
	}
	return formatCount(int(total.IntPart()))
}

func writeCSVResultsForSnapshot(w io.Writer, result schema.SnapshotResult, precision int) error {
	return writeCSVWithHeader(w, []string{"stage", "mode", "total"}, func(cw *csv.Writer) error {
		for _, s := range result.Stages {
			total := s.Total.StringFixed(int32(precision))
			if result.Mode != schema.ValueMode {
				total = s.Total.StringFixed(0)
			}
			if err := cw.Write([]string{s.Title, string(result.Mode), total}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSnapshotTable(w io.Writer, result schema.SnapshotResult, cfg *contract.Config, duration time.Duration) error {
	totalHeader := "Deals"
	if result.Mode == schema.ValueMode {
		totalHeader = "Contract Value"
	}

	data := make([][]string, 0, len(result.Stages)+1)
	for _, s := range result.Stages {
		data = append(data, []string{s.Title, formatSnapshotTotal(s.Total, result.Mode, cfg.Precision)})
	}
	data = append(data, []string{"Total", formatSnapshotTotal(result.Total, result.Mode, cfg.Precision)})

	if err := renderTable(w, []string{"Stage", totalHeader}, data); err != nil {
		return err
	}

	header := colorizer(cfg.UseColors)
	if result.Owner != "" || result.Company != "" {
		_, _ = fmt.Fprintf(w, "%s owner=%q company=%q\n", header("Filters:"), result.Owner, result.Company)
	}
	_, _ = fmt.Fprintf(w, "Snapshot completed in %v\n", duration)
	return nil
}
