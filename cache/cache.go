// Package cache implements the typed, content-addressed resource cache:
// per-device and global maps from a 64-bit FNV-1a hash of creation
// parameters to a shared, refcount-free handle, with polymorphic cleanup
// dispatched by the registry without it knowing the concrete resource type.
package cache

import (
	"sync"
	"sync/atomic"
)

// Stats reports the hit/miss counters and entry count for one cacher.
// Entries is read under lock; Hits and Misses are eventually consistent
// with respect to a concurrent GetOrCreate, matching the bus's own
// statistics discipline.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Cacher is the polymorphic capability the registry dispatches against.
// It never needs to know the concrete resource kind behind it.
type Cacher interface {
	TypeTag() string
	Cleanup() error
	Clear()
	Stats() Stats
}

type entryRec[P comparable, V any] struct {
	params P
	value  V
}

// TypedCache is a per-resource-kind cacher. P is the creation-parameter
// struct (content-hashed and compared for collision safety); V is the
// wrapper type holding the native handle.
type TypedCache[P comparable, V any] struct {
	tag     string
	hashFn  func(P) uint64
	create  func(P) (V, error)
	destroy func(V) error

	mu      sync.RWMutex
	entries map[uint64][]entryRec[P, V]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewTypedCache builds a cacher for one resource kind. hashFn and P's ==
// equality must agree on every field that influences object identity.
func NewTypedCache[P comparable, V any](tag string, hashFn func(P) uint64, create func(P) (V, error), destroy func(V) error) *TypedCache[P, V] {
	return &TypedCache[P, V]{
		tag:     tag,
		hashFn:  hashFn,
		create:  create,
		destroy: destroy,
		entries: make(map[uint64][]entryRec[P, V]),
	}
}

// GetOrCreate returns the cached value for params, creating it under lock
// on a miss. Double-checked locking: the fast path only takes a read
// lock; a genuine miss re-checks under the write lock before creating,
// since another goroutine may have raced to create the same entry.
func (c *TypedCache[P, V]) GetOrCreate(params P) (V, error) {
	h := c.hashFn(params)

	c.mu.RLock()
	if v, ok := lookup(c.entries[h], params); ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := lookup(c.entries[h], params); ok {
		c.hits.Add(1)
		return v, nil
	}
	v, err := c.create(params)
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries[h] = append(c.entries[h], entryRec[P, V]{params: params, value: v})
	c.misses.Add(1)
	return v, nil
}

func lookup[P comparable, V any](bucket []entryRec[P, V], params P) (V, bool) {
	for _, e := range bucket {
		if e.params == params {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// TypeTag returns the cacher's resource kind identifier.
func (c *TypedCache[P, V]) TypeTag() string { return c.tag }

// Cleanup destroys every entry's native handle and drains the map. It is
// invoked polymorphically by the registry through the Cacher interface.
func (c *TypedCache[P, V]) Cleanup() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for _, bucket := range c.entries {
		for _, e := range bucket {
			if err := c.destroy(e.value); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	c.entries = make(map[uint64][]entryRec[P, V])
	return firstErr
}

// Clear drops every entry without destroying the underlying objects; use
// only when the caller has already destroyed them externally.
func (c *TypedCache[P, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64][]entryRec[P, V])
}

// Stats returns hit/miss counters and the current entry count.
func (c *TypedCache[P, V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, bucket := range c.entries {
		n += len(bucket)
	}
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: n}
}
