package repository

import (
	"sync/atomic"
	"time"

	"github.com/juju/clock"
)

// Default TTL for the cached max-id bound.
const defaultMaxIDTTL = 5 * time.Minute

type maxIDEntry struct {
	value      int64
	observedAt time.Time
}

// MaxIDCache holds a recent upper bound on a table's id column so random
// selection does not run MAX(id) on every request. The cache is advisory:
// a stale bound only skews selection toward older rows until the next
// refresh. Concurrent refreshes may overwrite each other; the loser's
// update is simply lost, which costs one extra MAX(id) query at worst.
type MaxIDCache struct {
	ttl  time.Duration
	clk  clock.Clock
	cell atomic.Pointer[maxIDEntry]
}

// NewMaxIDCache creates a cache with a 5 minute TTL and the wall clock
// unless overridden.
func NewMaxIDCache(opts ...CacheOption) *MaxIDCache {
	c := &MaxIDCache{
		ttl: defaultMaxIDTTL,
		clk: clock.WallClock,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached bound and whether it is still fresh.
func (c *MaxIDCache) Get() (int64, bool) {
	e := c.cell.Load()
	if e == nil {
		return 0, false
	}
	if c.clk.Now().Sub(e.observedAt) >= c.ttl {
		return 0, false
	}
	return e.value, true
}

// Put stores a freshly observed bound.
func (c *MaxIDCache) Put(value int64) {
	c.cell.Store(&maxIDEntry{value: value, observedAt: c.clk.Now()})
}

// CacheOption applies a configuration option to the MaxIDCache.
type CacheOption func(*MaxIDCache)

// WithCacheTTL sets how long a cached bound stays fresh.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *MaxIDCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheClock sets the clock used for freshness checks.
func WithCacheClock(clk clock.Clock) CacheOption {
	return func(c *MaxIDCache) {
		if clk != nil {
			c.clk = clk
		}
	}
}
