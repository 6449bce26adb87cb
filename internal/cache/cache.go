package cache

import "sync"

// Cache is a generic LRU cache with a fixed capacity. Setting a key when
// the cache is full evicts the least recently used entry.
//
// Cache is safe for concurrent use and must not be copied after creation.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*lruNode[K, V]
	order    lruList[K, V]
	capacity int

	hits, misses uint64
}

// New creates a cache holding at most capacity entries.
// A capacity of 0 means unlimited.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*lruNode[K, V]),
		capacity: capacity,
	}
}

// Get returns the cached value and marks it as recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(node)
	return node.value, true
}

// Set stores value under key.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.entries[key]; ok {
		node.value = value
		c.order.moveToFront(node)
		return
	}
	node := &lruNode[K, V]{key: key, value: value}
	c.entries[key] = node
	c.order.pushFront(node)

	if c.capacity > 0 && c.order.len > c.capacity {
		if old := c.order.removeOldest(); old != nil {
			delete(c.entries, old.key)
		}
	}
}

// GetOrCreate returns the cached value or stores the result of create.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := create()
	c.Set(key, v)
	return v
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.unlink(node)
	delete(c.entries, key)
	return true
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*lruNode[K, V])
	c.order = lruList[K, V]{}
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats contains cache statistics.
type Stats struct {
	Len      int
	Capacity int
	Hits     uint64
	Misses   uint64
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Len: len(c.entries), Capacity: c.capacity, Hits: c.hits, Misses: c.misses}
}
