package rules

import "time"

// CatalogCache caches the active catalog list read from a CatalogStore so
// reloads do not hit the database on every request.
type CatalogCache interface {
	// Get retrieves cached catalogs, returns nil if cache miss or expired
	Get() []*StoredCatalog

	// Set stores catalogs in cache
	Set(catalogs []*StoredCatalog)

	// Invalidate clears the cache, forcing a refresh on next Get
	Invalidate()

	// IsValid returns true if cache has valid data
	IsValid() bool
}

// CacheConfig holds configuration for cache behavior
type CacheConfig struct {
	// TTL is the time-to-live for cached entries
	// Set to 0 for no expiration (manual invalidation only)
	TTL time.Duration
}

// DefaultCacheConfig returns the defaults for catalog list caching
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL: 0, // No TTL - only invalidate on mutations
	}
}
