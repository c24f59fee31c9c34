package core

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/internal/filesource"
	"github.com/huangsam/dealflow/internal/iocache"
	"github.com/huangsam/dealflow/internal/monday"
	"github.com/huangsam/dealflow/schema"
)

// Sources bundles the fetchers one command reads from.
type Sources struct {
	Deals contract.DealFetcher
	Logs  contract.LogFetcher
}

// NewSources builds the configured source. Remote sources are wrapped with the fetch cache
// when the manager has a store; file sources are always read fresh.
func NewSources(cfg *contract.Config, mgr contract.CacheManager) (Sources, error) {
	switch cfg.Source {
	case schema.FileSource:
		src := filesource.New(cfg.DealsFile, cfg.LogsFile)
		return Sources{Deals: src, Logs: src}, nil
	case schema.MondaySource, "":
		client := monday.NewClient(monday.Options{
			URL:            cfg.APIURL,
			Token:          cfg.APIToken,
			BoardID:        cfg.BoardID,
			ItemsPageLimit: cfg.ItemsPageLimit,
			PageDelay:      cfg.PageDelay,
			ActiveLabel:    cfg.ActiveLabel,
			Columns:        cfg.Columns,
		})
		var store contract.CacheStore
		if mgr != nil {
			store = mgr.GetFetchStore()
		}
		scope := cacheScope(cfg)
		return Sources{
			Deals: iocache.NewCachedDealFetcher(client, store, scope, cfg.CacheTTL),
			Logs:  iocache.NewCachedLogFetcher(client, store, scope, cfg.CacheTTL),
		}, nil
	default:
		return Sources{}, fmt.Errorf("unsupported source: %s", cfg.Source)
	}
}

// cacheScope identifies everything that changes what the remote source returns.
func cacheScope(cfg *contract.Config) string {
	cols := make([]string, 0, len(cfg.Columns))
	for _, k := range slices.Sorted(maps.Keys(cfg.Columns)) {
		cols = append(cols, k+"="+cfg.Columns[k])
	}
	return strings.Join([]string{
		string(schema.MondaySource),
		cfg.APIURL,
		cfg.BoardID,
		cfg.ActiveLabel,
		strings.Join(cols, ","),
	}, "|")
}
