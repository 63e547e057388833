package repository

import (
	"time"

	"github.com/juju/clock"

	"github.com/okian/arena/pkg/logger"
)

type storeOptions struct {
	minConns int
	maxConns int
	budget   time.Duration
	interval time.Duration
	ttl      time.Duration
	clk      clock.Clock
	intN     func(n int64) int64
	log      logger.Logger
}

func newStoreOptions(minConns, maxConns int) storeOptions {
	return storeOptions{
		minConns: minConns,
		maxConns: maxConns,
		budget:   defaultConnectBudget,
		interval: defaultConnectInterval,
		ttl:      defaultMaxIDTTL,
		clk:      clock.WallClock,
	}
}

// StoreOption applies a configuration option to a SQL store.
type StoreOption func(*storeOptions)

// WithPoolBounds sets the minimum and maximum pool size.
func WithPoolBounds(minConns, maxConns int) StoreOption {
	return func(o *storeOptions) {
		if minConns > 0 {
			o.minConns = minConns
		}
		if maxConns > 0 {
			o.maxConns = maxConns
		}
	}
}

// WithConnectBudget sets the total startup connectivity budget.
func WithConnectBudget(budget time.Duration) StoreOption {
	return func(o *storeOptions) {
		if budget > 0 {
			o.budget = budget
		}
	}
}

// WithConnectInterval sets the pause between startup attempts.
func WithConnectInterval(interval time.Duration) StoreOption {
	return func(o *storeOptions) {
		if interval > 0 {
			o.interval = interval
		}
	}
}

// WithMaxIDTTL sets the freshness window of the cached max-id bound.
func WithMaxIDTTL(ttl time.Duration) StoreOption {
	return func(o *storeOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock sets the clock used by the retry loop and the max-id cache.
func WithClock(clk clock.Clock) StoreOption {
	return func(o *storeOptions) {
		if clk != nil {
			o.clk = clk
		}
	}
}

// WithRandInt overrides the random draw used for row selection.
func WithRandInt(intN func(n int64) int64) StoreOption {
	return func(o *storeOptions) {
		if intN != nil {
			o.intN = intN
		}
	}
}

// WithLogger enables store and startup logging.
func WithLogger(log logger.Logger) StoreOption {
	return func(o *storeOptions) {
		o.log = log
	}
}

func (o storeOptions) selectorOptions() []SelectorOption {
	if o.intN == nil {
		return nil
	}
	return []SelectorOption{WithIntN(o.intN)}
}

func (o storeOptions) cacheOptions() []CacheOption {
	return []CacheOption{WithCacheTTL(o.ttl), WithCacheClock(o.clk)}
}

func (o storeOptions) connectOptions() []ConnectOption {
	opts := []ConnectOption{
		WithBudget(o.budget),
		WithInterval(o.interval),
		WithConnectClock(o.clk),
	}
	if o.log != nil {
		opts = append(opts, WithConnectLogger(o.log))
	}
	return opts
}
