package iocache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
)

// currentCacheVersion defines the version of the cached payload encoding.
const currentCacheVersion = 1

// keyGranularity rounds query windows so repeated runs within it share log page entries.
const keyGranularity = time.Hour

// CachedDealFetcher serves deals from the cache while they are fresh.
type CachedDealFetcher struct {
	next  contract.DealFetcher
	store contract.CacheStore
	scope string
	ttl   time.Duration
	now   func() time.Time
}

var _ contract.DealFetcher = &CachedDealFetcher{} // Compile-time check

// NewCachedDealFetcher wraps next. Scope identifies the source (endpoint, board, column layout).
// A nil store or a non-positive ttl makes the wrapper a pass-through.
func NewCachedDealFetcher(next contract.DealFetcher, store contract.CacheStore, scope string, ttl time.Duration) *CachedDealFetcher {
	return &CachedDealFetcher{next: next, store: store, scope: scope, ttl: ttl, now: time.Now}
}

// FetchDeals implements the DealFetcher interface.
func (f *CachedDealFetcher) FetchDeals(ctx context.Context) ([]schema.Deal, error) {
	if f.store == nil || f.ttl <= 0 {
		return f.next.FetchDeals(ctx)
	}
	key := dealsKeyPrefix + hashKey(f.scope)

	var deals []schema.Deal
	if checkCacheHit(f.store, key, f.ttl, f.now(), &deals) {
		return deals, nil
	}

	deals, err := f.next.FetchDeals(ctx)
	if err != nil {
		return nil, err
	}
	storeEntry(f.store, key, deals, f.now())
	return deals, nil
}

// CachedLogFetcher serves change-log pages from the cache while they are fresh.
type CachedLogFetcher struct {
	next  contract.LogFetcher
	store contract.CacheStore
	scope string
	ttl   time.Duration
	now   func() time.Time
}

var _ contract.LogFetcher = &CachedLogFetcher{} // Compile-time check

// NewCachedLogFetcher wraps next. A nil store or a non-positive ttl makes the wrapper a pass-through.
func NewCachedLogFetcher(next contract.LogFetcher, store contract.CacheStore, scope string, ttl time.Duration) *CachedLogFetcher {
	return &CachedLogFetcher{next: next, store: store, scope: scope, ttl: ttl, now: time.Now}
}

// FetchLogPage implements the LogFetcher interface.
func (f *CachedLogFetcher) FetchLogPage(ctx context.Context, q schema.LogQuery) ([]schema.RawLogEntry, error) {
	if f.store == nil || f.ttl <= 0 {
		return f.next.FetchLogPage(ctx, q)
	}
	key := logsKeyPrefix + hashKey(fmt.Sprintf("%s:%s:%d:%d:%d:%d",
		f.scope,
		q.Field,
		q.Page,
		q.Limit,
		q.Since.Truncate(keyGranularity).Unix(),
		q.Until.Truncate(keyGranularity).Unix(),
	))

	var entries []schema.RawLogEntry
	if checkCacheHit(f.store, key, f.ttl, f.now(), &entries) {
		return entries, nil
	}

	entries, err := f.next.FetchLogPage(ctx, q)
	if err != nil {
		return nil, err
	}
	storeEntry(f.store, key, entries, f.now())
	return entries, nil
}

// checkCacheHit decodes a fresh entry of the current version into out.
func checkCacheHit(s contract.CacheStore, key string, ttl time.Duration, now time.Time, out any) bool {
	data, version, ts, err := s.Get(key)
	if err != nil {
		return false // Cache miss
	}
	if version != currentCacheVersion || now.Sub(time.Unix(ts, 0)) > ttl {
		return false // Stale or version mismatch
	}
	return json.Unmarshal(data, out) == nil
}

// storeEntry writes v to the cache. Failures only cost a future miss.
func storeEntry(s contract.CacheStore, key string, v any, now time.Time) {
	if data, err := json.Marshal(v); err == nil {
		_ = s.Set(key, data, currentCacheVersion, now.Unix())
	}
}

func hashKey(s string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(s)))
}
