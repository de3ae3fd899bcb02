// Package cache provides a thread-safe, size-bounded cache whose entries
// expire individually.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// TTLCache keeps at most maxEntries values, each for ttl after it was
// set. When full, the entry closest to expiry is evicted.
type TTLCache[K comparable, V any] struct {
	mu         sync.Mutex
	data       map[K]entry[V]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a cache. A maxEntries of zero or less means unbounded.
func New[K comparable, V any](ttl time.Duration, maxEntries int) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		data:       make(map[K]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value of key unless it is missing or expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok || !c.now().Before(e.expires) {
		delete(c.data, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for the cache TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, ok := c.data[key]; !ok && c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		c.pruneLocked(now)
		if len(c.data) >= c.maxEntries {
			c.evictLocked()
		}
	}
	c.data[key] = entry[V]{value: value, expires: now.Add(c.ttl)}
}

// Delete removes key.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Prune removes expired entries and returns how many were removed.
func (c *TTLCache[K, V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pruneLocked(c.now())
}

// pruneLocked must be called with the lock held.
func (c *TTLCache[K, V]) pruneLocked(now time.Time) int {
	n := 0
	for k, e := range c.data {
		if !now.Before(e.expires) {
			delete(c.data, k)
			n++
		}
	}
	return n
}

// evictLocked must be called with the lock held.
func (c *TTLCache[K, V]) evictLocked() {
	var (
		oldest K
		first  = true
		at     time.Time
	)
	for k, e := range c.data {
		if first || e.expires.Before(at) {
			oldest, at, first = k, e.expires, false
		}
	}
	if !first {
		delete(c.data, oldest)
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *TTLCache[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
