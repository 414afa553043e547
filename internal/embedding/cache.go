package embedding

import "sync"

// DefaultCacheCapacity bounds the query-embedding cache.
const DefaultCacheCapacity = 128

// Cache is a bounded LRU cache mapping query text to its embedding vector,
// shared across concurrent requests. Entries are keyed on (query, version)
// so that a configuration change can invalidate stale vectors: the same
// query embedded by a different backend is a different entry, and bumping
// the version via Invalidate makes every old entry unreachable.
type Cache struct {
	mu          sync.Mutex
	capacity    int
	version     string
	entries     map[cacheKey][]float32
	accessOrder []cacheKey
}

type cacheKey struct {
	query   string
	version string
}

// NewCache creates a cache with the given capacity, using DefaultCacheCapacity
// when capacity is not positive.
func NewCache(capacity int, version string) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		version:  version,
		entries:  make(map[cacheKey][]float32, capacity),
	}
}

// Get returns the cached vector for a query under the current version.
func (c *Cache) Get(query string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{query: query, version: c.version}
	vec, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.touchLocked(key)
	return vec, true
}

// Put stores a vector for a query under the current version, evicting the
// least recently used entry when at capacity.
func (c *Cache) Put(query string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{query: query, version: c.version}
	if _, exists := c.entries[key]; exists {
		c.entries[key] = vec
		c.touchLocked(key)
		return
	}

	for len(c.entries) >= c.capacity && len(c.accessOrder) > 0 {
		oldest := c.accessOrder[0]
		c.accessOrder = c.accessOrder[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = vec
	c.accessOrder = append(c.accessOrder, key)
}

// Invalidate switches to a new configuration version. Entries cached under
// previous versions become unreachable and age out through normal eviction.
func (c *Cache) Invalidate(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version = version
}

// Len reports the number of cached entries across all versions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// touchLocked moves key to the most-recently-used position.
func (c *Cache) touchLocked(key cacheKey) {
	for i, k := range c.accessOrder {
		if k == key {
			c.accessOrder = append(c.accessOrder[:i], c.accessOrder[i+1:]...)
			break
		}
	}
	c.accessOrder = append(c.accessOrder, key)
}
