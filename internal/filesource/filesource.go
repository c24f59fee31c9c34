// Package filesource serves deals and change logs from local files.
package filesource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/huangsam/dealflow/core/dates"
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
	"gopkg.in/yaml.v3"
)

// Source reads a deals file (JSON or YAML array of deals) and an optional
// logs file (JSON array of raw log entries). Files are read once, on first use.
type Source struct {
	dealsPath string
	logsPath  string

	dealsOnce sync.Once
	deals     []schema.Deal
	dealsErr  error

	logsOnce sync.Once
	logs     []schema.RawLogEntry
	logsErr  error
}

var _ contract.Source = &Source{} // Compile-time check

// New creates a file source. logsPath may be empty, in which case the change log is empty.
func New(dealsPath, logsPath string) *Source {
	return &Source{dealsPath: dealsPath, logsPath: logsPath}
}

// FetchDeals implements the DealFetcher interface.
func (s *Source) FetchDeals(ctx context.Context) ([]schema.Deal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.dealsOnce.Do(func() {
		s.deals, s.dealsErr = readDeals(s.dealsPath)
	})
	if s.dealsErr != nil {
		return nil, s.dealsErr
	}
	out := make([]schema.Deal, len(s.deals))
	copy(out, s.deals)
	return out, nil
}

// FetchLogPage implements the LogFetcher interface.
// Entries are filtered by the query window, then paged in file order.
// Entries whose timestamp cannot be decoded are kept so the caller can count them.
func (s *Source) FetchLogPage(ctx context.Context, q schema.LogQuery) ([]schema.RawLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logsOnce.Do(func() {
		if s.logsPath != "" {
			s.logs, s.logsErr = readLogs(s.logsPath)
		}
	})
	if s.logsErr != nil {
		return nil, s.logsErr
	}
	if q.Page < 1 || q.Limit < 1 {
		return nil, fmt.Errorf("invalid log query page=%d limit=%d", q.Page, q.Limit)
	}

	var window []schema.RawLogEntry
	for _, e := range s.logs {
		if ts, ok := dates.DecodeTicks(e.CreatedAtEncoded); ok {
			if !q.Since.IsZero() && ts.Before(q.Since) {
				continue
			}
			if !q.Until.IsZero() && ts.After(q.Until) {
				continue
			}
		}
		window = append(window, e)
	}

	start := (q.Page - 1) * q.Limit
	if start >= len(window) {
		return []schema.RawLogEntry{}, nil
	}
	end := min(start+q.Limit, len(window))
	return append([]schema.RawLogEntry(nil), window[start:end]...), nil
}

func readDeals(path string) ([]schema.Deal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deals file: %w", err)
	}
	var deals []schema.Deal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &deals)
	default:
		err = json.Unmarshal(data, &deals)
	}
	if err != nil {
		return nil, fmt.Errorf("parse deals file %s: %w", path, err)
	}
	return deals, nil
}

func readLogs(path string) ([]schema.RawLogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read logs file: %w", err)
	}
	var logs []schema.RawLogEntry
	if err := json.Unmarshal(data, &logs); err != nil {
		return nil, fmt.Errorf("parse logs file %s: %w", path, err)
	}
	return logs, nil
}
