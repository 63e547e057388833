package repository

import (
	"time"

	"github.com/okian/arena/pkg/metrics"
)

// observeQuery times one query for the db_query_duration histogram.
// Usage: defer observeQuery("list")().
func observeQuery(op string) func() {
	start := time.Now()
	return func() {
		metrics.ObserveQueryDuration(op, time.Since(start))
	}
}
