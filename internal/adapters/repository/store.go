// Package repository provides read access to the entity tables behind each
// service. Both SQL backends (pgx for heroes/villains, go-sql-driver for
// locations) implement the same Store interface, share the bounded-retry
// startup sequence, and pick random rows through a TTL-cached upper bound
// on the id column.
package repository

import (
	"context"

	"github.com/okian/arena/internal/domain/model"
)

// Store provides read access to one entity table.
type Store interface {
	// List returns every row of the table in wire form.
	List(ctx context.Context) ([]model.Record, error)

	// ByID returns the row with the given id.
	// Returns ErrNotFound when no such row exists.
	ByID(ctx context.Context, id int64) (model.Record, error)

	// Random returns an approximately uniformly selected row.
	// Returns ErrNotFound when the table is empty.
	Random(ctx context.Context) (model.Record, error)

	// Close releases the underlying connection pool.
	Close()
}

// Table is the minimal read surface the random selector needs. Both SQL
// stores implement it; tests substitute fakes.
type Table interface {
	// MaxID returns the current maximum id. ok is false when the table
	// has no rows.
	MaxID(ctx context.Context) (id int64, ok bool, err error)

	// FirstAtOrAfter returns the first row with id >= bound, ordered by
	// id ascending. ok is false when no row qualifies.
	FirstAtOrAfter(ctx context.Context, bound int64) (rec model.Record, ok bool, err error)

	// First returns the row with the smallest id. ok is false when the
	// table has no rows.
	First(ctx context.Context) (rec model.Record, ok bool, err error)
}
