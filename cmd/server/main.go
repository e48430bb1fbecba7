// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/feedrank/internal/api"
	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/database"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/recommend"
	"github.com/tomtom215/feedrank/internal/supervisor"
	"github.com/tomtom215/feedrank/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config not yet available; the default logger is used.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.Info().
		Str("driver", cfg.Database.Driver).
		Str("addr", cfg.Server.Addr()).
		Str("error_policy", cfg.Recommend.ErrorPolicy).
		Msg("Starting feedrank")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Str("driver", db.Driver()).Msg("Database initialized")

	guarded := database.NewGuardedStore(db, cfg.Database.Breaker)
	if !cfg.Database.Breaker.Enabled {
		logging.Warn().Msg("Store circuit breaker is disabled (BREAKER_ENABLED=false)")
	}

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), guarded.Stores(), logging.WithComponent("recommend"))
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	engine.SetObserver(metrics.NewObserver())

	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	router := api.NewRouter(
		api.NewRecommendHandler(engine, cfg.Recommend.RequestTimeout),
		api.NewHealthHandler(db, guarded.State, engine.Metrics),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if db.Driver() == config.DriverDuckDB {
		tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}

	var treeErr error
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		treeErr = fmt.Errorf("supervisor tree: %w", serveErr)
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	m := engine.Metrics()
	logging.Info().
		Int64("requests", m.Requests).
		Int64("clicks", m.Clicks).
		Int64("degraded", m.Degraded).
		Msg("Engine totals")

	return treeErr
}
