// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/attune-app/attune/internal/metrics"
	"github.com/attune-app/attune/internal/models"
	"github.com/attune-app/attune/internal/store"
)

// Runner executes the per-user pipeline: extract profile, build the
// candidate pool, score, rank, persist. Safe for concurrent use; runs
// for different users share no mutable state.
type Runner struct {
	config   *Config
	provider DataProvider
	pool     *PoolBuilder
	logger   zerolog.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewRunner creates a pipeline runner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRunner(cfg *Config, provider DataProvider, logger zerolog.Logger) (*Runner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Runner{
		config:   cfg,
		provider: provider,
		pool:     NewPoolBuilder(provider, logger),
		logger:   logger.With().Str("component", "recommend").Logger(),
		now:      time.Now,
	}, nil
}

// Run executes the full pipeline for one user. Eligibility failures
// surface as ErrUserNotFound, ErrNotOnboarded, or ErrNoAnswers; any
// other failure is a *StepError naming the failing step. On success no
// partial state is visible: the record and its latest alias commit
// together.
func (r *Runner) Run(ctx context.Context, uid string, trigger Trigger) (*RunResult, error) {
	start := r.now()
	result, err := r.run(ctx, uid, trigger, start)
	if err != nil {
		metrics.RunsTotal.WithLabelValues(string(trigger), "failed").Inc()
		return nil, err
	}
	metrics.RunsTotal.WithLabelValues(string(trigger), "succeeded").Inc()
	metrics.RunDuration.WithLabelValues(string(trigger)).Observe(r.now().Sub(start).Seconds())
	metrics.RecommendationsReturned.Observe(float64(len(result.ContentIDs)))
	return result, nil
}

func (r *Runner) run(ctx context.Context, uid string, trigger Trigger, start time.Time) (*RunResult, error) {
	logger := r.logger.With().Str("uid", uid).Str("trigger", string(trigger)).Logger()
	logger.Debug().Msg("pipeline started")

	// STARTED: eligibility checks before any pipeline work.
	profile, err := r.buildProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("intentions", len(profile.Intentions)).
		Str("time_commitment", profile.TimeCommitment).
		Msg("profile built")

	// CANDIDATES_LOADED
	candidates, exclusions, err := r.pool.Build(ctx, uid)
	if err != nil {
		return nil, failAt(StepCandidatesLoaded, err)
	}

	// SCORED
	scored := ScoreAll(candidates, profile, exclusions)

	// FILTERED
	ranked := Rank(scored, r.config.MaxRecommendations)

	// PERSISTED
	record := r.buildRecord(uid, trigger, profile, exclusions, scored, ranked)
	runKey := RunKey(trigger, record.GeneratedAt)
	if err := r.provider.PutRecommendationRecord(ctx, runKey, record); err != nil {
		return nil, failAt(StepPersisted, err)
	}

	logger.Info().
		Str("run_key", runKey).
		Int("scored", len(scored)).
		Int("recommended", len(record.ContentIDs)).
		Dur("duration", r.now().Sub(start)).
		Msg("pipeline complete")

	return &RunResult{
		UID:         uid,
		RunKey:      runKey,
		ContentIDs:  record.ContentIDs,
		GeneratedAt: record.GeneratedAt,
	}, nil
}

// buildProfile verifies eligibility and derives the preference profile.
func (r *Runner) buildProfile(ctx context.Context, uid string) (*PreferenceProfile, error) {
	if _, err := r.provider.GetUser(ctx, uid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, failAt(StepStarted, err)
	}

	resp, err := r.provider.GetLatestCompletedResponse(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotOnboarded
		}
		return nil, failAt(StepStarted, err)
	}
	if len(resp.Answers) == 0 {
		return nil, ErrNoAnswers
	}

	profile := BuildProfile(resp.Answers)
	return &profile, nil
}

// buildRecord assembles the persisted result with its provenance.
func (r *Runner) buildRecord(uid string, trigger Trigger, profile *PreferenceProfile,
	exclusions ExclusionSet, scored, ranked []ScoredCandidate) *models.RecommendationRecord {

	contentIDs := make([]string, len(ranked))
	scores := make(map[string]float64, len(ranked))
	for i, sc := range ranked {
		contentIDs[i] = sc.ContentID
		scores[sc.ContentID] = sc.Score
	}

	var total float64
	for _, sc := range scored {
		total += sc.Score
	}
	average := 0.0
	if len(scored) > 0 {
		average = total / float64(len(scored))
	}

	return &models.RecommendationRecord{
		UID:              uid,
		ContentIDs:       contentIDs,
		Scores:           scores,
		GeneratedAt:      r.now().UTC(),
		AlgorithmVersion: AlgorithmVersion,
		BasedOn: models.ProfileSnapshot{
			Intentions:             profile.Intentions,
			ExperienceByDiscipline: profile.ExperienceByDiscipline,
			TimeCommitment:         profile.TimeCommitment,
			ExcludedContentIDs:     exclusions.Sorted(),
		},
		Metadata: models.RunMetadata{
			TotalCandidatesScored: len(scored),
			AverageScore:          average,
			Trigger:               string(trigger),
		},
	}
}

// RunKey derives the persistence key for a run: the UTC calendar date
// for scheduled runs, the trigger name otherwise.
func RunKey(trigger Trigger, at time.Time) string {
	if trigger == TriggerScheduled {
		return at.UTC().Format("2006-01-02")
	}
	return string(trigger)
}
