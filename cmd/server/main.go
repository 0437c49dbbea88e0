// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/cocktailmaestro/internal/api"
	"github.com/tomtom215/cocktailmaestro/internal/config"
	"github.com/tomtom215/cocktailmaestro/internal/logging"
	"github.com/tomtom215/cocktailmaestro/internal/supervisor"
	"github.com/tomtom215/cocktailmaestro/internal/supervisor/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Cocktail Maestro")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires every component and blocks until SIGINT or SIGTERM.
func run(cfg *config.Config) error {
	storage, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	images := initImageStore(cfg)

	tagStats, err := initTagStats(cfg)
	if err != nil {
		return err
	}

	engine, err := initEngine(cfg, storage.Recipes)
	if err != nil {
		return err
	}

	deps := api.Dependencies{
		Recipes:   storage.Recipes,
		Materials: storage.Materials,
		Engine:    engine,
		Images:    images,
		TagStats:  tagStats,
		APIKey:    cfg.Security.APIKey,
		Version:   version,
	}

	handler, err := api.NewHandler(deps)
	if err != nil {
		return err
	}
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security)))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	if cfg.Recommend.WarmInterval > 0 {
		tree.AddDataService(services.NewIndexWarmerService(storage.Recipes, services.IndexWarmerConfig{
			Interval:    cfg.Recommend.WarmInterval,
			Timeout:     cfg.Recommend.FetchTimeout,
			WarmOnStart: true,
		}, logging.WithComponent("warmer")))
	} else {
		logging.Info().Msg("Recipe index warmer disabled (RECOMMEND_WARM_INTERVAL=0)")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// Serve returns once ctx is canceled and every layer has stopped.
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	return nil
}
