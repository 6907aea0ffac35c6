// Package cache provides a bounded, insertion-ordered cache.
//
// # FIFO[K, V]
//
// A thread-safe map that evicts the oldest-inserted entry once it holds
// capacity entries. Lookups never refresh an entry's position, so the
// eviction order depends only on the order of first insertion:
//
//	c := cache.NewFIFO[string, int](50)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// There is no single-flight de-duplication. Two callers that miss on the same
// key may both compute a value; the later Set wins.
//
// # Thread Safety
//
// FIFO is safe for concurrent use and must not be copied after creation.
package cache
