package repository

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/arena/internal/domain/model"
)

// Default pool bounds for the Postgres-backed services.
const (
	defaultPGMinConns = 10
	defaultPGMaxConns = 50
)

// Readiness probe: list user tables, like a driver-level smoke test. It
// touches the catalog only, so it succeeds even before seed data lands.
const pgReadinessQuery = `
	SELECT schemaname, tablename
	FROM pg_catalog.pg_tables
	WHERE schemaname NOT IN ('pg_catalog', 'information_schema')
`

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresStore serves one entity table from a pgx connection pool.
type PostgresStore struct {
	pool     *pgxpool.Pool
	table    string
	selector *RandomSelector
}

// NewPostgresStore connects to databaseURL with the bounded-retry startup
// sequence and returns a store over table. The call blocks until the
// database is ready or the connect budget is spent; in the latter case the
// returned error wraps ErrStartup and the caller must not serve traffic.
func NewPostgresStore(ctx context.Context, databaseURL, table string, opts ...StoreOption) (*PostgresStore, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}

	o := newStoreOptions(defaultPGMinConns, defaultPGMaxConns)
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MinConns = int32(o.minConns)
	cfg.MaxConns = int32(o.maxConns)

	// The pool is created at most once: a successful probe keeps it, a
	// failed one tears it down before the next attempt.
	var pool *pgxpool.Pool
	probe := func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return err
		}
		if _, err := p.Exec(ctx, pgReadinessQuery); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	}
	if err := WaitReady(ctx, probe, o.connectOptions()...); err != nil {
		return nil, err
	}

	s := &PostgresStore{pool: pool, table: table}
	s.selector = NewRandomSelector(s, NewMaxIDCache(o.cacheOptions()...), o.selectorOptions()...)
	return s, nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]model.Record, error) {
	defer observeQuery("list")()

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT * FROM %s`, s.table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	return collectPG(rows)
}

// ByID implements Store.
func (s *PostgresStore) ByID(ctx context.Context, id int64) (model.Record, error) {
	defer observeQuery("by_id")()

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT * FROM %s WHERE id = $1`, s.table), id)
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", s.table, id, err)
	}
	recs, err := collectPG(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs[0], nil
}

// Random implements Store.
func (s *PostgresStore) Random(ctx context.Context) (model.Record, error) {
	return s.selector.Pick(ctx)
}

// Close implements Store.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// MaxID implements Table.
func (s *PostgresStore) MaxID(ctx context.Context) (int64, bool, error) {
	defer observeQuery("max_id")()

	var max *int64
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT MAX(id) FROM %s`, s.table)).Scan(&max)
	if err != nil {
		return 0, false, fmt.Errorf("max id of %s: %w", s.table, err)
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

// FirstAtOrAfter implements Table.
func (s *PostgresStore) FirstAtOrAfter(ctx context.Context, bound int64) (model.Record, bool, error) {
	defer observeQuery("first_at_or_after")()

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT * FROM %s WHERE id >= $1 ORDER BY id LIMIT 1`, s.table), bound)
	if err != nil {
		return nil, false, fmt.Errorf("random probe of %s: %w", s.table, err)
	}
	return onePG(rows)
}

// First implements Table.
func (s *PostgresStore) First(ctx context.Context) (model.Record, bool, error) {
	defer observeQuery("first")()

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT * FROM %s ORDER BY id LIMIT 1`, s.table))
	if err != nil {
		return nil, false, fmt.Errorf("first row of %s: %w", s.table, err)
	}
	return onePG(rows)
}

// collectPG drains rows into wire-form records using the result-set
// metadata for column names.
func collectPG(rows pgx.Rows) ([]model.Record, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := make([]model.Record, 0)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rec := make(model.Record, len(fields))
		for i, fd := range fields {
			rec[fd.Name] = vals[i]
		}
		out = append(out, rec.Normalize())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func onePG(rows pgx.Rows) (model.Record, bool, error) {
	recs, err := collectPG(rows)
	if err != nil {
		return nil, false, err
	}
	if len(recs) == 0 {
		return nil, false, nil
	}
	return recs[0], true, nil
}

var _ Store = (*PostgresStore)(nil)
var _ Table = (*PostgresStore)(nil)
