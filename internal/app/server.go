// Package app runs the HTTP server lifecycle shared by the service
// binaries: explicit transport timeouts, gzip compression, graceful
// shutdown on context cancellation.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"

	"github.com/okian/arena/pkg/logger"
)

// HTTP server timeout defaults.
const (
	defaultReadTimeout       = 10 * time.Second
	defaultWriteTimeout      = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 30 * time.Second
)

// Server serves one HTTP handler until its context is cancelled.
type Server struct {
	addr            string
	handler         http.Handler
	log             logger.Logger
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	readHeader      time.Duration
	shutdownTimeout time.Duration
}

// New creates a server for handler on addr. The handler is wrapped with
// response compression.
func New(addr string, handler http.Handler, log logger.Logger, opts ...Option) *Server {
	s := &Server{
		addr:            addr,
		handler:         handlers.CompressHandler(handler),
		log:             log,
		readTimeout:     defaultReadTimeout,
		writeTimeout:    defaultWriteTimeout,
		idleTimeout:     defaultIdleTimeout,
		readHeader:      defaultReadHeaderTimeout,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully. It
// returns a non-nil error when the listener fails or shutdown exceeds
// its timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       s.idleTimeout,
		ReadHeaderTimeout: s.readHeader,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "starting HTTP server", logger.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info(ctx, "server stopped")
	return nil
}
