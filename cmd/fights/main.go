// The fights service: a stateless aggregator that fans out to the heroes,
// villains and locations services and composes fight outcomes.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/okian/arena/internal/adapters/http/api"
	"github.com/okian/arena/internal/adapters/peers"
	"github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("fights: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, config.Fights)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	metrics.Init(metrics.WithSubsystem("fights"))

	client := peers.New(
		peers.WithBaseURLs(cfg.HeroesURL, cfg.VillainsURL, cfg.LocationsURL),
		peers.WithHTTPClient(&http.Client{Timeout: cfg.PeerTimeout()}),
	)

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)
	api.RegisterHealth(r)
	api.NewFightServer(client, log).Register(r)

	return app.New(cfg.Addr, r, log).Run(ctx)
}
