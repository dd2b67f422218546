// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

// Package recommend implements the rule-based recommendation engine:
// answer extraction, candidate pooling, deterministic scoring, ranking,
// and the per-user pipeline with its batch orchestration.
//
// The package has no dependency on the storage layer. The DataProvider
// interface (candidates.go) is implemented by the store package, keeping
// the engine testable with in-memory fakes.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/attune-app/attune/internal/models"
)

// AlgorithmVersion identifies the scoring rules recorded on every
// persisted result.
const AlgorithmVersion = "rules-v1"

// Trigger names what started a pipeline run.
type Trigger string

// Pipeline triggers.
const (
	TriggerOnboarding Trigger = "onboarding"
	TriggerScheduled  Trigger = "scheduled"
	TriggerManual     Trigger = "manual"
)

// Step identifies a stage of the per-user pipeline state machine.
type Step string

// Pipeline steps, in execution order. A run moves through them in
// sequence and terminates at StepPersisted, or fails at any step.
const (
	StepStarted          Step = "started"
	StepProfileBuilt     Step = "profile_built"
	StepCandidatesLoaded Step = "candidates_loaded"
	StepScored           Step = "scored"
	StepFiltered         Step = "filtered"
	StepPersisted        Step = "persisted"
)

// Eligibility errors surfaced to callers distinctly from internal
// pipeline failures.
var (
	// ErrUserNotFound indicates the target user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotOnboarded indicates the user has no completed onboarding
	// submission.
	ErrNotOnboarded = errors.New("user has no completed onboarding")

	// ErrNoAnswers indicates the completed submission carries zero answers.
	ErrNoAnswers = errors.New("onboarding submission has no answers")
)

// StepError wraps a pipeline failure with the step it occurred at, so
// batch logs and API errors can name the failing stage.
type StepError struct {
	Step Step
	Err  error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline step %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// failAt wraps err with the failing step.
func failAt(step Step, err error) *StepError {
	return &StepError{Step: step, Err: err}
}

// PreferenceProfile is the typed preference signal set derived from a
// user's onboarding answers. Rebuilt from scratch on every run, never
// mutated in place.
type PreferenceProfile struct {
	// Intentions is the de-duplicated, normalized intention token list,
	// in first-seen order.
	Intentions []string

	// ExperienceByDiscipline maps a discipline to the user's level token.
	ExperienceByDiscipline map[string]string

	// FirstLevel is the first level token recorded for any discipline,
	// used as the fallback when an item's discipline has no entry.
	FirstLevel string

	// TimeCommitment is the user's time-commitment bucket.
	TimeCommitment string
}

// ScoredCandidate pairs a content ID with its computed score. Ephemeral;
// exists only within one pipeline run.
type ScoredCandidate struct {
	ContentID string
	Score     float64
}

// ExclusionSet holds content IDs the engine must never recommend for a
// given run. Recomputed per run, never cached.
type ExclusionSet map[string]struct{}

// Contains reports whether contentID is excluded.
func (e ExclusionSet) Contains(contentID string) bool {
	_, ok := e[contentID]
	return ok
}

// Add marks contentID as excluded.
func (e ExclusionSet) Add(contentID string) {
	e[contentID] = struct{}{}
}

// Sorted returns the excluded IDs in sorted order, for deterministic
// persistence in run provenance.
func (e ExclusionSet) Sorted() []string {
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RunResult summarizes one successful per-user run.
type RunResult struct {
	UID         string
	RunKey      string
	ContentIDs  []string
	GeneratedAt time.Time
}

// BatchResult is the tally of one scheduled batch execution.
type BatchResult struct {
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// DataProvider is the read/write surface the pipeline needs from the
// document store. Implemented by the store package; faked in tests.
type DataProvider interface {
	// GetUser returns the user document. Absence is reported with an
	// error matching store.ErrNotFound.
	GetUser(ctx context.Context, uid string) (*models.User, error)

	// GetLatestCompletedResponse returns the user's most recently
	// completed onboarding submission.
	GetLatestCompletedResponse(ctx context.Context, uid string) (*models.OnboardingResponse, error)

	// GetReadyContent returns every catalog item eligible for
	// recommendation.
	GetReadyContent(ctx context.Context) ([]models.ContentItem, error)

	// GetUserActivity returns the user's activity records.
	GetUserActivity(ctx context.Context, uid string) ([]models.ActivityRecord, error)

	// GetActiveEnrollments returns the user's active program enrollments.
	GetActiveEnrollments(ctx context.Context, uid string) ([]models.Enrollment, error)

	// GetProgram resolves a program's member content IDs.
	GetProgram(ctx context.Context, programID string) (*models.Program, error)

	// ListOnboardedUserIDs returns the scheduled trigger's population.
	ListOnboardedUserIDs(ctx context.Context) ([]string, error)

	// PutRecommendationRecord persists a run's record under runKey and
	// the latest alias atomically.
	PutRecommendationRecord(ctx context.Context, runKey string, rec *models.RecommendationRecord) error
}
