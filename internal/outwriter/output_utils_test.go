package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "precision 2", precision: 2, value: 3.14159, expected: "3.14"},
		{name: "precision 0", precision: 0, value: 3.14159, expected: "3"},
		{name: "precision 4", precision: 4, value: 3.14159, expected: "3.1416"},
		{name: "negative value", precision: 2, value: -42.567, expected: "-42.57"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		value     string
		precision int
		expected  string
	}{
		{"1500.5", 2, "1,500.50"},
		{"1234567.891", 2, "1,234,567.89"},
		{"1500.5", 0, "1,501"},
		{"0", 2, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatAmount(decimal.RequireFromString(tt.value), tt.precision))
		})
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "12,345", formatCount(12345))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, map[string]any{"stage": "On-hold", "count": 2}))
	assert.Contains(t, buf.String(), "stage: On-hold")
	assert.Contains(t, buf.String(), "count: 2")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"a", "b"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "x,y"})
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x,y\"\n", buf.String())
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello\n")
		return err
	}, "Wrote test output")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestWriteWithFileError(t *testing.T) {
	err := writeWithFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error {
		return nil
	}, "unused")
	assert.Error(t, err)
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		in       string
		max      int
		expected string
	}{
		{"Acme", 10, "Acme"},
		{"Acme Corporation", 10, "Acme Co..."},
		{"Ação Comercial", 6, "Açã..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := truncateName(tt.in, tt.max)
			assert.Equal(t, tt.expected, got)
			assert.LessOrEqual(t, len([]rune(got)), tt.max)
		})
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, []string{"Stage", "Deals"}, [][]string{{"On-hold", "2"}}))
	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "STAGE")
	assert.Contains(t, out, "On-hold")
}
