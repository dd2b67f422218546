// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

// Package scheduler runs the weekly recommendation batch on a fixed
// interval under the supervisor tree.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/attune-app/attune/internal/recommend"
)

// Scheduler triggers scheduled batch runs. Implements suture.Service.
type Scheduler struct {
	runner   *recommend.Runner
	interval time.Duration
	logger   zerolog.Logger

	// runOnStart fires one batch immediately at startup, so a restart
	// after a missed window does not wait a full interval.
	runOnStart bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRunOnStart makes the scheduler fire a batch immediately when it
// starts serving.
func WithRunOnStart() Option {
	return func(s *Scheduler) { s.runOnStart = true }
}

// New creates a scheduler running batches every interval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(runner *recommend.Runner, interval time.Duration, logger zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// String names the service in supervisor logs.
func (s *Scheduler) String() string {
	return "recommendation-scheduler"
}

// Serve runs batches until the context is canceled.
func (s *Scheduler) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")

	if s.runOnStart {
		s.runBatch(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.runBatch(ctx)
		}
	}
}

// runBatch executes one scheduled batch. Batch failures are logged, not
// returned: the schedule keeps ticking regardless.
func (s *Scheduler) runBatch(ctx context.Context) {
	result, err := s.runner.RunAll(ctx, recommend.TriggerScheduled)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled batch failed")
		return
	}

	s.logger.Info().
		Int("total", result.Total).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("scheduled batch finished")
}
