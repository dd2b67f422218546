// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/attune-app/attune/internal/models"
)

// CompletionThreshold is the completion percentage at or above which an
// item counts as consumed and joins the exclusion set.
const CompletionThreshold = 80

// maxEnrollmentLookups bounds how many active enrollments are resolved
// to program members in one run. Excess enrollments are logged and
// skipped; a known scalability gap, not a correctness requirement.
const maxEnrollmentLookups = 10

// PoolBuilder loads the candidate pool and exclusion set for one user.
type PoolBuilder struct {
	provider DataProvider
	logger   zerolog.Logger
}

// NewPoolBuilder creates a candidate pool builder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPoolBuilder(provider DataProvider, logger zerolog.Logger) *PoolBuilder {
	return &PoolBuilder{
		provider: provider,
		logger:   logger.With().Str("component", "candidates").Logger(),
	}
}

// Build returns all eligible catalog items and the user's exclusion set.
// Purely reads; no writes.
func (b *PoolBuilder) Build(ctx context.Context, uid string) ([]models.ContentItem, ExclusionSet, error) {
	candidates, err := b.provider.GetReadyContent(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	exclusions, err := b.buildExclusions(ctx, uid)
	if err != nil {
		return nil, nil, err
	}

	b.logger.Debug().
		Str("uid", uid).
		Int("candidates", len(candidates)).
		Int("exclusions", len(exclusions)).
		Msg("candidate pool built")

	return candidates, exclusions, nil
}

// buildExclusions recomputes the exclusion set from activity records and
// active enrollments. Never cached.
func (b *PoolBuilder) buildExclusions(ctx context.Context, uid string) (ExclusionSet, error) {
	exclusions := make(ExclusionSet)

	activity, err := b.provider.GetUserActivity(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	for _, rec := range activity {
		if rec.CompletionPercent >= CompletionThreshold {
			exclusions.Add(rec.ContentID)
		}
	}

	enrollments, err := b.provider.GetActiveEnrollments(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	if len(enrollments) > maxEnrollmentLookups {
		b.logger.Warn().
			Str("uid", uid).
			Int("active_enrollments", len(enrollments)).
			Int("limit", maxEnrollmentLookups).
			Msg("enrollment lookup limit exceeded, excess skipped")
		enrollments = enrollments[:maxEnrollmentLookups]
	}

	for _, enr := range enrollments {
		program, err := b.provider.GetProgram(ctx, enr.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("resolve program %s: %w", enr.ProgramID, err)
		}
		for _, contentID := range program.ContentIDs {
			exclusions.Add(contentID)
		}
	}

	return exclusions, nil
}
