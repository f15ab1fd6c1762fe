package sim

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// cacheEntry is the memoized evaluation result for one gene.
type cacheEntry struct {
	NumDoors   int
	Iterations float64
	Distance   float64
}

// Cache is a keyed memo of evaluated gene configurations, shared across an
// Instance's lifetime and invalidated whenever the instance hash changes.
// Concurrent identical-key misses are coalesced through a
// singleflight.Group so each miss performs at most one Simulator-backed
// evaluation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	hash    uint64
	group   singleflight.Group
}

// newCache constructs an empty cache for the given initial instance hash.
func newCache(hash uint64) *Cache {
	return &Cache{entries: make(map[string]cacheEntry), hash: hash}
}

// invalidateIfChanged clears the cache when the freshly recomputed instance
// hash no longer matches the stored one.
func (c *Cache) invalidateIfChanged(hash uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hash != c.hash {
		c.entries = make(map[string]cacheEntry)
		c.hash = hash
	}
}

// getOrCompute returns the cached entry for key, computing it exactly once
// even under concurrent callers.
func (c *Cache) getOrCompute(key string, compute func() (cacheEntry, error)) (cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the group: another goroutine may have populated
		// the entry while we were waiting to enter Do for this key.
		c.mu.RLock()
		if e, ok := c.entries[key]; ok {
			c.mu.RUnlock()
			return e, nil
		}
		c.mu.RUnlock()

		e, err := compute()
		if err != nil {
			return cacheEntry{}, err
		}
		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return cacheEntry{}, err
	}
	return v.(cacheEntry), nil
}

// Len reports the number of memoized entries (test/inspection helper).
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
