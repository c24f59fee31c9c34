package monday

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/dealflow/schema"
)

const logsQuery = `query ($board: [ID!], $from: ISO8601DateTime, $to: ISO8601DateTime, $limit: Int, $page: Int, $columns: [String]) { boards(ids: $board) { activity_logs(from: $from, to: $to, limit: $limit, page: $page, column_ids: $columns) { id event data created_at entity } } }`

type activityLog struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	CreatedAt string          `json:"created_at"`
	Entity    json.RawMessage `json:"entity"`
}

// FetchLogPage returns one page of the board's activity log for the tracked column.
// Pacing between pages is left to the caller.
func (c *Client) FetchLogPage(ctx context.Context, q schema.LogQuery) ([]schema.RawLogEntry, error) {
	vars := map[string]any{
		"board": []string{c.boardID},
		"limit": q.Limit,
		"page":  q.Page,
	}
	if !q.Since.IsZero() {
		vars["from"] = q.Since.UTC().Format(time.RFC3339)
	}
	if !q.Until.IsZero() {
		vars["to"] = q.Until.UTC().Format(time.RFC3339)
	}
	if q.Field != "" {
		vars["columns"] = []string{q.Field}
	}

	var out struct {
		Boards []struct {
			ActivityLogs []activityLog `json:"activity_logs"`
		} `json:"boards"`
	}
	if err := c.do(ctx, logsQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("fetch activity logs page %d: %w", q.Page, err)
	}
	if len(out.Boards) == 0 {
		return nil, fmt.Errorf("%w: board %s not found", ErrGraphQL, c.boardID)
	}

	logs := out.Boards[0].ActivityLogs
	entries := make([]schema.RawLogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, schema.RawLogEntry{ID: l.ID, CreatedAtEncoded: l.CreatedAt, RawPayload: l.Data, Entity: l.Entity})
	}
	return entries, nil
}
