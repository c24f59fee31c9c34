package transition

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/page.json
var pageFixture []byte

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func loadEntries(t *testing.T) []schema.RawLogEntry {
	t.Helper()
	var entries []schema.RawLogEntry
	require.NoError(t, json.Unmarshal(pageFixture, &entries))
	require.Len(t, entries, 10)
	return entries
}

func testDeals() []schema.Deal {
	return []schema.Deal{
		{ID: "101", Name: "Acme", Status: "Active", Stage: "Forecast - 90%", Owner: "Ana", ContractValue: "12,500", CloseDate: "2025-07-01", Performance: "On track"},
		{ID: "104", Name: "Umbrella", Status: "Active", Stage: "Closed/Declined", Owner: "Bo"},
	}
}

func testOptions() Options {
	return Options{Now: func() time.Time { return fixedNow }, PageDelay: -1}
}

// pagedFetcher serves entries in chunks of q.Limit.
func pagedFetcher(entries []schema.RawLogEntry, calls *int) contract.LogFetcherFunc {
	var mu sync.Mutex
	return func(_ context.Context, q schema.LogQuery) ([]schema.RawLogEntry, error) {
		mu.Lock()
		defer mu.Unlock()
		if calls != nil {
			*calls++
		}
		start := (q.Page - 1) * q.Limit
		if start >= len(entries) {
			return nil, nil
		}
		end := min(start+q.Limit, len(entries))
		return entries[start:end], nil
	}
}

func TestEngineRunFixture(t *testing.T) {
	engine := NewEngine(pagedFetcher(loadEntries(t), nil), testOptions())
	report, err := engine.Run(context.Background(), testDeals(), nil)
	require.NoError(t, err)

	assert.Equal(t, schema.TransitionStats{
		Scanned: 10, Malformed: 1, OtherField: 1, NoLabels: 1, NoItem: 1,
		BadTimestamp: 1, Expired: 1, Duplicates: 1,
	}, report.Stats)
	assert.Equal(t, 1, report.Pages)
	assert.Equal(t, fixedNow, report.GeneratedAt)

	require.Len(t, report.Records, 3)
	ids := []string{report.Records[0].LogID, report.Records[1].LogID, report.Records[2].LogID}
	assert.Equal(t, []string{"log-9", "log-1", "log-2"}, ids)

	latest := report.Records[0]
	assert.Equal(t, "104", latest.ItemID)
	assert.Equal(t, "Item", latest.ItemName)
	assert.Equal(t, schema.Regression, latest.Classification)
	assert.Equal(t, time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC), latest.Timestamp)

	acme := report.Records[1]
	assert.Equal(t, "Acme", acme.ItemName)
	assert.Equal(t, "Forecast - 75%", acme.FromStage)
	assert.Equal(t, "Forecast - 90%", acme.ToStage)
	assert.Equal(t, schema.Advance, acme.Classification)
	assert.Equal(t, "Forecast - 90%", acme.CurrentStage)
	require.NotNil(t, acme.Owner)
	assert.Equal(t, "Ana", *acme.Owner)
	require.NotNil(t, acme.ContractValue)
	assert.Equal(t, "12,500", *acme.ContractValue)
	require.NotNil(t, acme.Performance)
	assert.Equal(t, "On track", *acme.Performance)

	globex := report.Records[2]
	assert.Equal(t, "Globex", globex.ItemName)
	assert.Equal(t, "Opportunity - 50%", globex.FromStage)
	assert.Equal(t, "Prospect - 25%", globex.ToStage)
	assert.Equal(t, schema.Regression, globex.Classification)
	assert.Equal(t, "Prospect - 25%", globex.CurrentStage)
	assert.Nil(t, globex.Owner)
	assert.Nil(t, globex.CloseDate)
}

func TestEngineRunGroupsDays(t *testing.T) {
	engine := NewEngine(pagedFetcher(loadEntries(t), nil), testOptions())
	report, err := engine.Run(context.Background(), testDeals(), nil)
	require.NoError(t, err)

	require.Len(t, report.Days, 2)
	assert.Equal(t, "2025-06-15", report.Days[0].Date)
	assert.Equal(t, 0, report.Days[0].Advances)
	assert.Equal(t, 1, report.Days[0].Regressions)

	day := report.Days[1]
	assert.Equal(t, "2025-06-10", day.Date)
	assert.Equal(t, 1, day.Advances)
	assert.Equal(t, 1, day.Regressions)
	require.Len(t, day.Pairs, 2)
	assert.Equal(t, "Forecast - 75%", day.Pairs[0].FromStage)
	assert.Equal(t, schema.Advance, day.Pairs[0].Classification)
	assert.Equal(t, "Opportunity - 50%", day.Pairs[1].FromStage)
}

func TestEngineRunPaginates(t *testing.T) {
	calls := 0
	opts := testOptions()
	opts.PageLimit = 4
	engine := NewEngine(pagedFetcher(loadEntries(t), &calls), opts)

	var seen []State
	report, err := engine.Run(context.Background(), testDeals(), func(s State, _ int) {
		seen = append(seen, s)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, report.Pages)
	assert.Len(t, report.Records, 3)
	assert.Equal(t, 10, report.Stats.Scanned)
	assert.Equal(t, 1, report.Stats.Duplicates)
	assert.Equal(t, Fetching, seen[0])
	assert.Equal(t, Done, seen[len(seen)-1])
	assert.Contains(t, seen, Accumulating)
}

func TestEngineRunStopsOnEmptyFullPageBoundary(t *testing.T) {
	calls := 0
	opts := testOptions()
	opts.PageLimit = 5
	engine := NewEngine(pagedFetcher(loadEntries(t), &calls), opts)

	report, err := engine.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	// Two full pages then an empty one.
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, report.Pages)
}

func TestEngineRunMaxPages(t *testing.T) {
	calls := 0
	opts := testOptions()
	opts.PageLimit = 2
	opts.MaxPages = 2
	engine := NewEngine(pagedFetcher(loadEntries(t), &calls), opts)

	report, err := engine.Run(context.Background(), testDeals(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 4, report.Stats.Scanned)
}

func TestEngineRunQuery(t *testing.T) {
	fetcher := &contract.MockLogFetcher{}
	want := schema.LogQuery{
		Page:  1,
		Limit: DefaultPageLimit,
		Since: fixedNow.Add(-DefaultHorizon),
		Until: fixedNow,
		Field: DefaultTrackedField,
	}
	fetcher.On("FetchLogPage", mock.Anything, want).Return([]schema.RawLogEntry{}, nil).Once()

	report, err := NewEngine(fetcher, testOptions()).Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Records)
	assert.NotNil(t, report.Records)
	fetcher.AssertExpectations(t)
}

func TestEngineRunPageFailure(t *testing.T) {
	boom := errors.New("upstream unavailable")
	entries := loadEntries(t)
	fetcher := contract.LogFetcherFunc(func(_ context.Context, q schema.LogQuery) ([]schema.RawLogEntry, error) {
		if q.Page == 2 {
			return nil, boom
		}
		return entries[:q.Limit], nil
	})
	opts := testOptions()
	opts.PageLimit = 3

	var last State
	report, err := NewEngine(fetcher, opts).Run(context.Background(), nil, func(s State, _ int) { last = s })
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fetch log page 2")
	assert.Equal(t, Aborted, last)
}

func TestEngineRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	entries := loadEntries(t)
	fetcher := contract.LogFetcherFunc(func(ctx context.Context, q schema.LogQuery) ([]schema.RawLogEntry, error) {
		if q.Page == 1 {
			cancel()
			return entries[:q.Limit], nil
		}
		<-ctx.Done()
		return nil, ctx.Err()
	})
	opts := testOptions()
	opts.PageLimit = 2

	report, err := NewEngine(fetcher, opts).Run(ctx, nil, nil)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngineRunPacesPages(t *testing.T) {
	opts := testOptions()
	opts.PageLimit = 4
	opts.PageDelay = 20 * time.Millisecond
	engine := NewEngine(pagedFetcher(loadEntries(t), nil), opts)

	start := time.Now()
	_, err := engine.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestOptionsDefaults(t *testing.T) {
	opts := NewEngine(nil, Options{}).Options()
	assert.Equal(t, DefaultHorizon, opts.Horizon)
	assert.Equal(t, DefaultPageLimit, opts.PageLimit)
	assert.Equal(t, DefaultPageDelay, opts.PageDelay)
	assert.Equal(t, DefaultTrackedField, opts.TrackedField)
	assert.NotNil(t, opts.Now)

	opts = NewEngine(nil, Options{PageDelay: -1, Horizon: time.Hour}).Options()
	assert.Equal(t, time.Duration(-1), opts.PageDelay)
	assert.Equal(t, time.Hour, opts.Horizon)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		prev, next string
		want       schema.Classification
	}{
		{"Prospect - 25%", "Opportunity - 50%", schema.Advance},
		{"Opportunity - 50%", "Signed Contract - 100%", schema.Advance},
		{"Forecast - 90%", "Forecast - 75%", schema.Regression},
		{"On-hold", "Closed/Declined", schema.Regression},
		{"Prospect - 25%", "Prospect - 25%", schema.Regression},
		{"Prospect - 25%", "Somewhere else", schema.Regression},
		{"Unknown", "Signed Contract - 100%", schema.Regression},
		{"Signed Contract - 100%", "Pro-bono Engagement", schema.Regression},
	}
	for _, tt := range tests {
		t.Run(tt.prev+"->"+tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.prev, tt.next))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "accumulating", Accumulating.String())
	assert.Equal(t, "aborted", Aborted.String())
	assert.Equal(t, "state(42)", State(42).String())
}

func TestEngineScanReportsWithLateDeals(t *testing.T) {
	engine := NewEngine(pagedFetcher(loadEntries(t), nil), testOptions())
	scan, err := engine.Scan(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, scan.Pages())

	bare := scan.Report(nil)
	require.Len(t, bare.Records, 3)
	assert.Nil(t, bare.Records[1].Owner)
	assert.Equal(t, "Forecast - 90%", bare.Records[1].CurrentStage)

	enriched := scan.Report(testDeals())
	require.NotNil(t, enriched.Records[1].Owner)
	assert.Equal(t, "Ana", *enriched.Records[1].Owner)
	assert.Equal(t, "Closed/Declined", enriched.Records[0].CurrentStage)
	assert.Nil(t, bare.Records[1].Owner, "an earlier report is not mutated")
	assert.Equal(t, 1, enriched.Pages)
}

func TestEngineRunFallsBackToEntryEntity(t *testing.T) {
	labels := `{"column_id":"status6__1","previous_value":{"label":{"text":"Prospect - 25%"}},"value":{"label":{"text":"Opportunity - 50%"}}}`
	entries := []schema.RawLogEntry{
		{ID: "e-1", CreatedAtEncoded: "17495568000001234", RawPayload: json.RawMessage(labels), Entity: json.RawMessage(`{"id":101,"name":"Acme"}`)},
		{ID: "e-2", CreatedAtEncoded: "17495568000001234", RawPayload: json.RawMessage(labels), Entity: json.RawMessage(`"pulse"`)},
		{ID: "e-3", CreatedAtEncoded: "17495568000001234", RawPayload: json.RawMessage(`{"column_id":"status6__1","pulse_id":7,"previous_value":{"text":"A"},"value":{"text":"B"}}`), Entity: json.RawMessage(`{"id":"999"}`)},
	}
	engine := NewEngine(pagedFetcher(entries, nil), testOptions())
	report, err := engine.Run(context.Background(), testDeals(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Stats.NoItem) // a kind string names no item
	require.Len(t, report.Records, 2)
	byLog := map[string]schema.TransitionRecord{}
	for _, r := range report.Records {
		byLog[r.LogID] = r
	}
	assert.Equal(t, "101", byLog["e-1"].ItemID)
	assert.Equal(t, "Acme", byLog["e-1"].ItemName)
	require.NotNil(t, byLog["e-1"].Owner)
	assert.Equal(t, "Ana", *byLog["e-1"].Owner)
	assert.Equal(t, "7", byLog["e-3"].ItemID, "the payload item wins over the entity")
}
