package cache

import "sync"

// PermissionCache memoizes role-graph resolutions keyed by
// (context identifier, resource, operation). Invalidation is all-or-nothing.
type PermissionCache struct {
	mu         sync.RWMutex
	entries    map[string]bool
	generation uint64
}

// NewPermissionCache creates an empty permission cache.
func NewPermissionCache() *PermissionCache {
	return &PermissionCache{entries: make(map[string]bool)}
}

// PermissionKey builds the cache key for a (context, resource, operation) triple.
func PermissionKey(contextID, resource, operation string) string {
	return contextID + "\x00" + resource + "\x00" + operation
}

// Generation returns the current invalidation generation. Callers record it
// before resolving and pass it back to Put.
func (c *PermissionCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Get returns the memoized result for key, if present.
func (c *PermissionCache) Get(key string) (value, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok = c.entries[key]
	return value, ok
}

// Put stores a result computed against generation gen. The write is discarded
// if an invalidation happened since gen was read: the resolution may reflect
// pre-mutation state, and caching a stale "true" would grant revoked access.
func (c *PermissionCache) Put(key string, value bool, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.entries[key] = value
}

// Invalidate clears every entry and advances the generation. Called under the
// role graph's write lock so no reader observes post-mutation stale results.
func (c *PermissionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]bool)
	c.generation++
}

// Len returns the number of memoized entries.
func (c *PermissionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
