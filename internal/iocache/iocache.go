// Package iocache caches raw fetched deals and change-log pages.
package iocache

import (
	"sync"

	"github.com/huangsam/dealflow/internal/contract"
)

// CacheStoreManager holds the fetch cache store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	fetch        contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetFetchStore returns the fetch CacheStore, or nil when caching is not initialized.
func (mgr *CacheStoreManager) GetFetchStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.fetch
}
