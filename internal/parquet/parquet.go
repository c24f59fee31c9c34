// Package parquet exports the flat dealflow result rows to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// Write writes rows to a new Parquet file at outputPath.
// The schema is inferred from the parquet tags of T.
func Write[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteTo(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteTo writes rows as one Parquet file to w.
func WriteTo[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the row group and writes the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
