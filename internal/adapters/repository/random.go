package repository

import (
	"context"
	"math/rand"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/metrics"
)

// RandomSelector picks an approximately uniform random row from a Table
// without a full-table scan. It draws a random id in [1, M] where M is a
// TTL-cached upper bound on the id column, then takes the first row at or
// after the draw. Rows that follow a gap in the id sequence are selected
// more often than their neighbors; that bias is an accepted trade for
// avoiding ORDER BY RANDOM().
type RandomSelector struct {
	tab   Table
	cache *MaxIDCache
	intN  func(n int64) int64
}

// SelectorOption applies a configuration option to the RandomSelector.
type SelectorOption func(*RandomSelector)

// WithIntN overrides the random draw, mainly for deterministic tests.
// The function must return a value in [0, n).
func WithIntN(intN func(n int64) int64) SelectorOption {
	return func(s *RandomSelector) {
		if intN != nil {
			s.intN = intN
		}
	}
}

// NewRandomSelector creates a selector over tab using cache for the
// max-id bound.
func NewRandomSelector(tab Table, cache *MaxIDCache, opts ...SelectorOption) *RandomSelector {
	s := &RandomSelector{
		tab:   tab,
		cache: cache,
		intN:  rand.Int63n,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pick returns one row, or ErrNotFound when the table is empty.
func (s *RandomSelector) Pick(ctx context.Context) (model.Record, error) {
	bound, err := s.bound(ctx)
	if err != nil {
		return nil, err
	}

	target := s.intN(bound) + 1
	rec, ok, err := s.tab.FirstAtOrAfter(ctx, target)
	if err != nil {
		return nil, err
	}
	if ok {
		return rec, nil
	}

	// The draw overshot every real id (stale bound, or a gap at the
	// tail). Fall back to the smallest-id row.
	rec, ok, err = s.tab.First(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// bound returns a fresh upper bound on the id column, consulting the
// cache first. An empty table yields the conventional bound of 1.
func (s *RandomSelector) bound(ctx context.Context) (int64, error) {
	if v, ok := s.cache.Get(); ok {
		return v, nil
	}

	max, present, err := s.tab.MaxID(ctx)
	if err != nil {
		return 0, err
	}
	bound := int64(1)
	if present && max > 0 {
		bound = max
	}
	s.cache.Put(bound)
	metrics.RecordMaxIDRefresh()
	return bound, nil
}
