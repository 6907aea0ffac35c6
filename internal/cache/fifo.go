package cache

import (
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the number of entries a FIFO holds when created with a
// non-positive capacity.
const DefaultCapacity = 50

// FIFO is a generic thread-safe cache with insertion-order eviction.
//
// When Set is called on a full cache with a new key, the entry that was
// inserted first is evicted before the new one is stored. Get does not
// change eviction order. Replacing the value of an existing key keeps its
// original position.
type FIFO[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*fifoEntry[K, V]
	order    queue[K]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// fifoEntry holds a cached value with its queue node.
type fifoEntry[K comparable, V any] struct {
	value V
	node  *queueNode[K]
}

// NewFIFO creates a cache holding at most capacity entries.
// If capacity <= 0, DefaultCapacity is used.
func NewFIFO[K comparable, V any](capacity int) *FIFO[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FIFO[K, V]{
		entries:  make(map[K]*fifoEntry[K, V]),
		capacity: capacity,
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *FIFO[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return entry.value, true
}

// Set stores a value in the cache, evicting the oldest-inserted entry first
// if the cache is full.
func (c *FIFO[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.value = value
		return
	}

	for len(c.entries) >= c.capacity {
		oldest, ok := c.order.RemoveOldest()
		if !ok {
			break
		}
		delete(c.entries, oldest)
		c.evictions.Add(1)
	}

	c.entries[key] = &fifoEntry[K, V]{
		value: value,
		node:  c.order.PushFront(key),
	}
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *FIFO[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(entry.node)
	delete(c.entries, key)
	return true
}

// Oldest returns the key that the next eviction would remove.
func (c *FIFO[K, V]) Oldest() (K, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Oldest()
}

// Clear removes all entries from the cache. Statistics are kept.
func (c *FIFO[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*fifoEntry[K, V])
	c.order.Clear()
}

// Len returns the number of entries in the cache.
func (c *FIFO[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *FIFO[K, V]) Capacity() int {
	return c.capacity
}

// Stats returns cache statistics.
func (c *FIFO[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the maximum number of entries.
	Capacity int
	// Hits is the number of successful lookups.
	Hits uint64
	// Misses is the number of failed lookups.
	Misses uint64
	// HitRate is the cache hit rate 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of entries evicted to make room.
	Evictions uint64
}
