package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/dealflow/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestSchemaColumns(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"snapshot", new(schema.SnapshotRecord), []string{"stage", "mode", "total"}},
		{"evolution", new(schema.EvolutionRecord), []string{"stage", "window", "count"}},
		{"daily", new(schema.DailyRecord), []string{"date", "label", "stage", "count"}},
		{"transitions", new(schema.TransitionExport), []string{
			"day", "log_id", "item_id", "item_name", "from_stage", "to_stage", "timestamp",
			"classification", "current_stage", "owner", "contract_value", "close_date", "performance",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, colName := range tt.columns {
				_, ok := s.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestWriteSnapshotRecords(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "snapshot.parquet")
	data := []schema.SnapshotRecord{
		{Stage: "Prospect - 25%", Mode: "count", Total: 3},
		{Stage: "On-hold", Mode: "count", Total: 0},
	}

	require.NoError(t, Write(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")
	assert.Equal(t, data, readAll[schema.SnapshotRecord](t, outputPath))
}

func TestWriteTransitionExportsNullable(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "transitions.parquet")
	owner := "Ana"
	ts := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	data := []schema.TransitionExport{
		{Day: "2025-06-10", LogID: "l1", ItemID: "101", FromStage: "a", ToStage: "b", Timestamp: ts, Classification: "Advance", Owner: &owner},
		{Day: "2025-06-10", LogID: "l2", ItemID: "999", FromStage: "b", ToStage: "a", Timestamp: ts, Classification: "Regression"},
	}

	require.NoError(t, Write(data, outputPath))
	got := readAll[schema.TransitionExport](t, outputPath)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].Owner, "Owner should not be nil")
	assert.Equal(t, "Ana", *got[0].Owner)
	assert.Nil(t, got[1].Owner, "Owner should be nil")
	assert.Nil(t, got[1].ContractValue)
	assert.True(t, ts.Equal(got[0].Timestamp))
}

func TestWriteToBuffer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, []schema.EvolutionRecord{{Stage: "x", Window: "0-7", Count: 1}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PAR1")), "Parquet files start with the magic bytes")
}

func TestWriteEmpty(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, Write([]schema.DailyRecord{}, outputPath))
	assert.Empty(t, readAll[schema.DailyRecord](t, outputPath))
}

func TestWriteInvalidPath(t *testing.T) {
	err := Write([]schema.SnapshotRecord{}, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}
