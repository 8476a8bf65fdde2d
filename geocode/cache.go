package geocode

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// CacheConfig controls the geocode result cache
type CacheConfig struct {
	Enabled         bool
	TTL             time.Duration
	CleanupInterval time.Duration
}

// GeocodeCache caches resolved addresses so repeated store rows do not
// burn provider calls
type GeocodeCache struct {
	config *CacheConfig
	data   map[string]*cacheEntry
	mutex  sync.RWMutex
	stats  CacheStats
}

type cacheEntry struct {
	result    *Result
	timestamp time.Time
}

// CacheStats is the hit/miss accounting of a cache
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// NewGeocodeCache creates a cache; a disabled cache misses on every Get
func NewGeocodeCache(config *CacheConfig) *GeocodeCache {
	cache := &GeocodeCache{
		config: config,
		data:   make(map[string]*cacheEntry),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go cache.startCleanup()
	}

	return cache
}

// cacheKey normalizes an address into a stable cache key
func cacheKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached result for an address
func (c *GeocodeCache) Get(address string) (*Result, bool) {
	if !c.config.Enabled {
		return nil, false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.data[cacheKey(address)]
	if !exists {
		c.stats.Misses++
		return nil, false
	}

	if c.config.TTL > 0 && time.Since(entry.timestamp) > c.config.TTL {
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	return entry.result, true
}

// Set stores a resolved address
func (c *GeocodeCache) Set(address string, result *Result) {
	if !c.config.Enabled {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[cacheKey(address)] = &cacheEntry{
		result:    result,
		timestamp: time.Now(),
	}
	c.stats.Size = len(c.data)
}

// Clear drops every entry and resets the stats
func (c *GeocodeCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]*cacheEntry)
	c.stats = CacheStats{}
}

// GetStats returns a copy of the cache statistics
func (c *GeocodeCache) GetStats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := c.stats
	stats.Size = len(c.data)
	return stats
}

// startCleanup periodically drops expired entries
func (c *GeocodeCache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *GeocodeCache) cleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.Sub(entry.timestamp) > c.config.TTL {
			delete(c.data, key)
		}
	}
	c.stats.Size = len(c.data)
}
