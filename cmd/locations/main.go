// The locations service: a read-only API over the locations table in MySQL.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/okian/arena/internal/adapters/http/api"
	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("locations: " + err.Error() + "\n")
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

	cfg, err := config.Load(ctx, config.Locations)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	metrics.Init(metrics.WithSubsystem("locations"))

	// MySQL seeds slower than Postgres in this deployment, hence the
	// longer default budget in the locations config.
	store, err := repository.NewMySQLStore(ctx, cfg.DatabaseURL, cfg.Table,
		repository.WithPoolBounds(cfg.PoolMinConns, cfg.PoolMaxConns),
		repository.WithConnectBudget(cfg.ConnectBudget()),
		repository.WithConnectInterval(cfg.ConnectInterval()),
		repository.WithMaxIDTTL(cfg.MaxIDTTL()),
		repository.WithLogger(log),
	)
	if err != nil {
		if errors.Is(err, repository.ErrStartup) {
			log.Error(ctx, "database never became ready; refusing to start", logger.Error(err))
		}
		return err
	}
	defer store.Close()

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)
	api.RegisterHealth(r)
	api.RegisterDebug(r)
	api.NewEntityServer(store, "locations", "random_location", log).Register(r)

	return app.New(cfg.Addr, r, log).Run(ctx)
}
