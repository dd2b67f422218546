// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

// Command server runs the Attune recommendation service: the HTTP API,
// the onboarding event consumer, and the weekly batch scheduler, all
// under one supervisor tree.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/attune-app/attune/internal/api"
	"github.com/attune-app/attune/internal/config"
	"github.com/attune-app/attune/internal/events"
	"github.com/attune-app/attune/internal/logging"
	"github.com/attune-app/attune/internal/recommend"
	"github.com/attune-app/attune/internal/scheduler"
	"github.com/attune-app/attune/internal/store"
	"github.com/attune-app/attune/internal/supervisor"
	"github.com/attune-app/attune/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logging.Info().Str("config", *configPath).Msg("attune starting")

	st, err := store.Open(cfg.Store.Dir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("close store")
		}
	}()

	runnerCfg := &recommend.Config{
		MaxRecommendations: cfg.Recommend.MaxRecommendations,
		BatchSize:          cfg.Recommend.BatchSize,
	}
	runner, err := recommend.NewRunner(runnerCfg, st, logger)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}

	pubsub := events.NewPubSub(logger)
	defer func() {
		if err := pubsub.Close(); err != nil {
			logging.Error().Err(err).Msg("close pubsub")
		}
	}()

	auth := api.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Disabled)
	if cfg.Auth.Disabled {
		logging.Warn().Msg("API authentication is disabled")
	}

	server := api.NewServer(cfg.Server, st, runner, events.NewPublisher(pubsub), auth)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	tree.AddJobService(events.NewConsumer(pubsub, runner, logger))
	if cfg.Scheduler.Enabled {
		tree.AddJobService(scheduler.New(runner, cfg.Scheduler.Interval, logger))
	}
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", httpServer.Addr).Msg("serving")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("attune stopped")
	return nil
}
