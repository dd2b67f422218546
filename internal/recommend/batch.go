// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/attune-app/attune/internal/metrics"
)

// RunAll executes the pipeline for every onboarded user in bounded
// batches. Runs within a batch execute concurrently; the next batch
// starts only after the whole batch completes. One user's failure is
// counted and logged, never aborts the batch.
func (r *Runner) RunAll(ctx context.Context, trigger Trigger) (*BatchResult, error) {
	start := r.now()

	uids, err := r.provider.ListOnboardedUserIDs(ctx)
	if err != nil {
		return nil, failAt(StepStarted, err)
	}

	result := &BatchResult{Total: len(uids)}
	var succeeded, failed atomic.Int64

	for offset := 0; offset < len(uids); offset += r.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := offset + r.config.BatchSize
		if end > len(uids) {
			end = len(uids)
		}
		batch := uids[offset:end]

		var wg sync.WaitGroup
		for _, uid := range batch {
			wg.Add(1)
			go func(uid string) {
				defer wg.Done()
				if _, err := r.Run(ctx, uid, trigger); err != nil {
					failed.Add(1)
					r.logFailure(uid, err)
					return
				}
				succeeded.Add(1)
			}(uid)
		}
		wg.Wait()
	}

	result.Succeeded = int(succeeded.Load())
	result.Failed = int(failed.Load())
	result.Duration = r.now().Sub(start)

	metrics.BatchUsersTotal.WithLabelValues("succeeded").Add(float64(result.Succeeded))
	metrics.BatchUsersTotal.WithLabelValues("failed").Add(float64(result.Failed))
	metrics.BatchDuration.Observe(result.Duration.Seconds())

	r.logger.Info().
		Str("trigger", string(trigger)).
		Int("total", result.Total).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("batch run complete")

	return result, nil
}

// logFailure records a per-user failure with the failing step when known.
func (r *Runner) logFailure(uid string, err error) {
	event := r.logger.Error().Str("uid", uid)

	var stepErr *StepError
	switch {
	case errors.As(err, &stepErr):
		event = event.Str("step", string(stepErr.Step)).Err(stepErr.Err)
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrNotOnboarded), errors.Is(err, ErrNoAnswers):
		event = event.Str("step", string(StepStarted)).Err(err)
	default:
		event = event.Err(err)
	}

	event.Msg("user run failed")
}
