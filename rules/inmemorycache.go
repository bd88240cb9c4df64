package rules

import (
	"sync"
	"time"
)

// InMemoryCatalogCache is a simple in-memory implementation of CatalogCache
// Thread-safe for concurrent access
type InMemoryCatalogCache struct {
	catalogs []*StoredCatalog
	cachedAt time.Time
	config   CacheConfig
	mu       sync.RWMutex
	isValid  bool
}

// NewInMemoryCatalogCache creates a new in-memory catalog cache
func NewInMemoryCatalogCache(config CacheConfig) *InMemoryCatalogCache {
	return &InMemoryCatalogCache{
		config: config,
	}
}

// Get retrieves cached catalogs
// Returns nil if cache is invalid or expired
func (c *InMemoryCatalogCache) Get() []*StoredCatalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.fresh() {
		return nil
	}

	// Return copy to prevent external modifications
	out := make([]*StoredCatalog, len(c.catalogs))
	copy(out, c.catalogs)
	return out
}

// Set stores catalogs in cache
func (c *InMemoryCatalogCache) Set(catalogs []*StoredCatalog) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.catalogs = make([]*StoredCatalog, len(catalogs))
	copy(c.catalogs, catalogs)
	c.cachedAt = time.Now()
	c.isValid = true
}

// Invalidate clears the cache
func (c *InMemoryCatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.isValid = false
	c.catalogs = nil
}

// IsValid returns true if cache contains valid data
func (c *InMemoryCatalogCache) IsValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.fresh()
}

// fresh must be called with mu held.
func (c *InMemoryCatalogCache) fresh() bool {
	if !c.isValid {
		return false
	}
	if c.config.TTL > 0 {
		return time.Since(c.cachedAt) <= c.config.TTL
	}
	return true
}
