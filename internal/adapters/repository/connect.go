package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Startup connectivity defaults. The budget is a startup precondition:
// once it is spent the service must not begin serving traffic.
const (
	defaultConnectBudget   = 10 * time.Second
	defaultConnectInterval = 500 * time.Millisecond
)

// Prober checks backend readiness: establish (or reuse) a connection and
// run a trivial query. It is called repeatedly until it succeeds or the
// budget runs out.
type Prober func(ctx context.Context) error

type connectConfig struct {
	budget   time.Duration
	interval time.Duration
	clk      clock.Clock
	log      logger.Logger
}

// ConnectOption applies a configuration option to WaitReady.
type ConnectOption func(*connectConfig)

// WithBudget sets the total time allowed for the backend to become ready.
func WithBudget(budget time.Duration) ConnectOption {
	return func(c *connectConfig) {
		if budget > 0 {
			c.budget = budget
		}
	}
}

// WithInterval sets the pause between attempts.
func WithInterval(interval time.Duration) ConnectOption {
	return func(c *connectConfig) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithConnectClock sets the clock driving the retry loop.
func WithConnectClock(clk clock.Clock) ConnectOption {
	return func(c *connectConfig) {
		if clk != nil {
			c.clk = clk
		}
	}
}

// WithConnectLogger enables per-attempt logging.
func WithConnectLogger(log logger.Logger) ConnectOption {
	return func(c *connectConfig) {
		c.log = log
	}
}

// WaitReady runs probe until it succeeds, a non-transient error occurs, or
// the budget is exhausted. Waits are cooperative: ctx cancellation stops
// the loop between attempts. On exhaustion the returned error wraps
// ErrStartup together with the last probe failure.
func WaitReady(ctx context.Context, probe Prober, opts ...ConnectOption) error {
	cfg := connectConfig{
		budget:   defaultConnectBudget,
		interval: defaultConnectInterval,
		clk:      clock.WallClock,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			return probe(ctx)
		},
		IsFatalError: func(err error) bool {
			return !transient(err)
		},
		NotifyFunc: func(lastError error, attempt int) {
			metrics.RecordConnectAttempt()
			if cfg.log != nil {
				cfg.log.Warn(ctx, "database not ready; retrying",
					logger.Int("attempt", attempt),
					logger.Error(lastError),
				)
			}
		},
		Attempts:    retry.UnlimitedAttempts,
		Delay:       cfg.interval,
		MaxDuration: cfg.budget,
		Clock:       cfg.clk,
		Stop:        ctx.Done(),
	})
	switch {
	case err == nil:
		return nil
	case retry.IsDurationExceeded(err):
		return fmt.Errorf("%w (budget %s): %w", ErrStartup, cfg.budget, retry.LastError(err))
	case retry.IsRetryStopped(err):
		return fmt.Errorf("startup aborted: %w", ctx.Err())
	default:
		// Fatal probe errors come back as-is, not in a retry wrapper.
		return fmt.Errorf("database probe failed: %w", err)
	}
}

// transient reports whether err looks like a connectivity failure worth
// retrying during startup. Anything unclassified is treated as fatal:
// a misconfigured DSN or an auth rejection will not fix itself by waiting.
func transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ECONNABORTED,
		syscall.ETIMEDOUT,
		syscall.EHOSTUNREACH,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
