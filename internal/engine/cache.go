package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache maps a canonical upstream URL to the last successfully computed value.
// An entry is served while now-storedAt < ttl; afterwards it is logically absent
// and gets overwritten by the next successful compute. Failed computes are never
// stored. There is no eviction: the map grows with the number of distinct keys.
type Cache[V any] struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry[V]

	flights *singleflight.Group // nil = concurrent misses compute independently

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

type cacheOptions struct {
	now          func() time.Time
	singleflight bool
}

// CacheOption customizes NewCache.
type CacheOption func(*cacheOptions)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(o *cacheOptions) { o.now = now }
}

// WithSingleflight toggles per-key de-duplication of concurrent misses (default on).
func WithSingleflight(enabled bool) CacheOption {
	return func(o *cacheOptions) { o.singleflight = enabled }
}

// NewCache creates an empty cache. name only labels log lines.
func NewCache[V any](name string, ttl time.Duration, opts ...CacheOption) *Cache[V] {
	o := cacheOptions{now: time.Now, singleflight: true}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &Cache[V]{
		name:    name,
		ttl:     ttl,
		now:     o.now,
		entries: make(map[string]cacheEntry[V]),
	}
	if o.singleflight {
		c.flights = &singleflight.Group{}
	}
	return c
}

// GetOrCompute returns the fresh value under key, or runs compute and stores its
// result on success. Errors from compute are returned as-is and leave the cache untouched.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, error)) (V, error) {
	if v, ok := c.lookup(key); ok {
		c.hits.Add(1)
		slog.Debug("cache: hit", slog.String("cache", c.name), slog.String("key", key))
		return v, nil
	}
	c.misses.Add(1)

	if c.flights == nil {
		return c.computeAndStore(ctx, key, compute)
	}

	// The shared call must not die with whichever caller happened to start it.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(key, func() (any, error) {
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		return c.computeAndStore(flightCtx, key, compute)
	})

	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		if res.Shared {
			slog.Debug("cache: shared compute", slog.String("cache", c.name), slog.String("key", key))
		}
		return res.Val.(V), nil
	}
}

// Stats returns current hit/miss counters and the number of stored entries,
// expired ones included.
func (c *Cache[V]) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.Len(),
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *Cache[V]) computeAndStore(ctx context.Context, key string, compute func(context.Context) (V, error)) (V, error) {
	storedAt := c.now()
	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry[V]{value: v, storedAt: storedAt}
	c.mu.Unlock()
	return v, nil
}
