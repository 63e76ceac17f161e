// Package depot implements a bounded intern cache keyed by structural
// hash. Snapshots captured at hot call sites tend to repeat; interning
// lets equal captures share one canonical value instead of each holding
// their own code references.
package depot

import (
	"sync/atomic"

	"github.com/elastic/go-freelru"
)

// Cache is a fixed-capacity LRU from structural hash to canonical value.
// Reads and writes are safe from any goroutine. When an entry is evicted
// to make room, the eviction callback passed to New runs with the evicted
// value; it may be invoked on whichever goroutine performed the insert.
type Cache[V any] struct {
	lru *freelru.SyncedLRU[uint64, V]

	// Stats
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats is a point-in-time snapshot of cache effectiveness counters.
type Stats struct {
	Hits   uint64
	Misses uint64
	Len    int
}

// New creates a cache holding at most capacity entries. onEvict runs for
// every entry displaced by capacity pressure; it must not call back into
// the cache.
func New[V any](capacity uint32, onEvict func(hash uint64, value V)) (*Cache[V], error) {
	lru, err := freelru.NewSynced[uint64, V](capacity, hashUint64)
	if err != nil {
		return nil, err
	}
	if onEvict != nil {
		lru.SetOnEvict(func(k uint64, v V) { onEvict(k, v) })
	}
	return &Cache[V]{lru: lru}, nil
}

// Get returns the canonical value for a hash, if present.
func (c *Cache[V]) Get(hash uint64) (V, bool) {
	v, ok := c.lru.Get(hash)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put installs the canonical value for a hash, possibly evicting the
// least recently used entry.
func (c *Cache[V]) Put(hash uint64, value V) {
	c.lru.Add(hash, value)
}

// Remove drops an entry without running the eviction callback.
func (c *Cache[V]) Remove(hash uint64) bool {
	return c.lru.Remove(hash)
}

// Len returns the number of interned entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Stats returns hit/miss counters and the current size.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Len:    c.lru.Len(),
	}
}

// hashUint64 folds the (already well-mixed) structural hash into the
// bucket hash freelru expects.
func hashUint64(k uint64) uint32 {
	return uint32(k ^ k>>32)
}
