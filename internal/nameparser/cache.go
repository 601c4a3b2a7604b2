package nameparser

import "sync"

// DefaultCacheSize is the number of names a Cache holds when no size is given.
const DefaultCacheSize = 100

// Cache maps raw names to final parse results. When full, the entry inserted
// earliest is evicted. Re-inserting a cached name replaces its result without
// changing its eviction order. Results are cloned on the way in and out.
// A Cache is safe for concurrent use and may be shared between parsers.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*ParseResult
	order   *ringBuffer[string]
}

// NewCache creates a cache holding at most size names. A size below one uses
// DefaultCacheSize.
func NewCache(size int) *Cache {
	if size < 1 {
		size = DefaultCacheSize
	}
	return &Cache{
		entries: make(map[string]*ParseResult, size),
		order:   newRingBuffer[string](size),
	}
}

// Get returns a copy of the cached result for name.
func (c *Cache) Get(name string) (*ParseResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Add stores result under name, evicting the oldest entry if the cache is full.
func (c *Cache) Add(name string, result *ParseResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; ok {
		c.entries[name] = result.Clone()
		return
	}

	if old, evicted := c.order.push(name); evicted {
		delete(c.entries, old)
	}
	c.entries[name] = result.Clone()
}

// Len returns the number of cached names.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.len()
}

// Keys returns the cached names from oldest to newest.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.items()
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.clear()
	clear(c.entries)
}
