// Package contract provides interfaces and shared utilities for the internal architecture of dealflow.
package contract

import (
	"context"

	"github.com/huangsam/dealflow/schema"
)

// DealFetcher returns the current deal records of a board.
// Implementations own pagination and rate limiting of their source.
type DealFetcher interface {
	FetchDeals(ctx context.Context) ([]schema.Deal, error)
}

// LogFetcher returns one page of change-log entries for the stage-tracking field.
// A page shorter than q.Limit means there are no more entries.
type LogFetcher interface {
	FetchLogPage(ctx context.Context, q schema.LogQuery) ([]schema.RawLogEntry, error)
}

// LogFetcherFunc adapts a function to the LogFetcher interface.
type LogFetcherFunc func(ctx context.Context, q schema.LogQuery) ([]schema.RawLogEntry, error)

// FetchLogPage implements the LogFetcher interface.
func (f LogFetcherFunc) FetchLogPage(ctx context.Context, q schema.LogQuery) ([]schema.RawLogEntry, error) {
	return f(ctx, q)
}

// Source bundles the fetchers of one data source.
type Source interface {
	DealFetcher
	LogFetcher
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetFetchStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Clear() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
