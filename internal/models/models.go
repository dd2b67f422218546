// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

// Package models defines the documents stored in and read from the
// Attune document store. The recommendation engine reads users, onboarding
// responses, catalog items, activity records, and enrollments; it writes
// recommendation records.
package models

import "time"

// Publication states for catalog items. Only ready items are eligible
// for recommendation.
const (
	PublicationReady    = "ready"
	PublicationDraft    = "draft"
	PublicationArchived = "archived"
)

// Onboarding response statuses.
const (
	ResponseInProgress = "in_progress"
	ResponseCompleted  = "completed"
)

// Enrollment statuses. Only active enrollments contribute to the
// exclusion set.
const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentAbandoned = "abandoned"
)

// User is a registered user of the app.
type User struct {
	// ID is the unique user identifier.
	ID string `json:"id"`

	// DisplayName is the user-visible name.
	DisplayName string `json:"display_name,omitempty"`

	// OnboardingCompleted indicates the user finished first-run setup.
	// The scheduled batch trigger selects its population on this flag.
	OnboardingCompleted bool `json:"onboarding_completed"`

	// CreatedAt is when the user registered.
	CreatedAt time.Time `json:"created_at"`
}

// OnboardingAnswer is one user-submitted response to one configuration
// question during first-run setup. Immutable once recorded.
type OnboardingAnswer struct {
	// QuestionID identifies the question answered.
	QuestionID string `json:"question_id"`

	// SelectedOptions is the ordered list of chosen option tokens.
	SelectedOptions []string `json:"selected_options"`

	// FreeTextAnswer is an optional free-form answer.
	FreeTextAnswer string `json:"free_text_answer,omitempty"`

	// AnsweredAt is when the answer was recorded.
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
}

// OnboardingResponse is one onboarding submission with its answer list.
type OnboardingResponse struct {
	// ID is the unique submission identifier.
	ID string `json:"id"`

	// UserID is the submitting user.
	UserID string `json:"user_id"`

	// Status is in_progress or completed. Only completed submissions
	// feed the recommendation pipeline.
	Status string `json:"status"`

	// Answers is the ordered list of answers.
	Answers []OnboardingAnswer `json:"answers"`

	// CompletedAt is when the submission was marked completed.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ContentItem is a candidate catalog item. Owned by the content catalog;
// read-only to the recommendation engine.
type ContentItem struct {
	// ID is the unique content identifier.
	ID string `json:"id"`

	// Title is the content title.
	Title string `json:"title,omitempty"`

	// Discipline is the practice category (meditation, yoga, breathing, ...).
	Discipline string `json:"discipline"`

	// Difficulty is the ordinal skill tier (beginner, intermediate,
	// advanced, expert).
	Difficulty string `json:"difficulty"`

	// DurationSeconds is the content length in seconds.
	DurationSeconds int `json:"duration_seconds"`

	// PublicationState gates eligibility; only "ready" items are candidates.
	PublicationState string `json:"publication_state"`
}

// ActivityRecord is one per-user playback/practice record.
type ActivityRecord struct {
	// UserID is the acting user.
	UserID string `json:"user_id"`

	// ContentID is the consumed content item.
	ContentID string `json:"content_id"`

	// CompletionPercent is how much of the item was consumed (0-100).
	CompletionPercent int `json:"completion_percent"`

	// OccurredAt is when the activity happened.
	OccurredAt time.Time `json:"occurred_at"`
}

// Enrollment is a per-user program membership.
type Enrollment struct {
	// UserID is the enrolled user.
	UserID string `json:"user_id"`

	// ProgramID is the program enrolled in.
	ProgramID string `json:"program_id"`

	// Status is active, completed, or abandoned.
	Status string `json:"status"`

	// EnrolledAt is when the enrollment started.
	EnrolledAt time.Time `json:"enrolled_at"`
}

// Program is a curated sequence of content items.
type Program struct {
	// ID is the unique program identifier.
	ID string `json:"id"`

	// Title is the program title.
	Title string `json:"title,omitempty"`

	// ContentIDs lists the items belonging to the program.
	ContentIDs []string `json:"content_ids"`
}

// ProfileSnapshot captures the inputs a recommendation run was based on,
// persisted for auditability.
type ProfileSnapshot struct {
	// Intentions is the normalized intention token set, in extraction order.
	Intentions []string `json:"intentions"`

	// ExperienceByDiscipline maps discipline to the user's level token.
	ExperienceByDiscipline map[string]string `json:"experience_by_discipline"`

	// TimeCommitment is the user's time-commitment bucket.
	TimeCommitment string `json:"time_commitment"`

	// ExcludedContentIDs is the sorted exclusion set used for the run.
	ExcludedContentIDs []string `json:"excluded_content_ids"`
}

// RunMetadata carries diagnostic information about one run.
type RunMetadata struct {
	// TotalCandidatesScored is how many eligible candidates were scored.
	TotalCandidatesScored int `json:"total_candidates_scored"`

	// AverageScore is the mean score across scored candidates.
	AverageScore float64 `json:"average_score"`

	// Trigger names what started the run (onboarding, scheduled, manual).
	Trigger string `json:"trigger"`
}

// RecommendationRecord is the persisted result of one pipeline run.
// Created fresh on every run; never updated in place.
type RecommendationRecord struct {
	// UID is the user the recommendations are for.
	UID string `json:"uid"`

	// ContentIDs is the ranked output, highest score first.
	ContentIDs []string `json:"content_ids"`

	// Scores maps each recommended content ID to its score.
	Scores map[string]float64 `json:"scores"`

	// GeneratedAt is when the run produced this record.
	GeneratedAt time.Time `json:"generated_at"`

	// AlgorithmVersion identifies the scoring rules used.
	AlgorithmVersion string `json:"algorithm_version"`

	// BasedOn snapshots the preference profile and exclusion set used.
	BasedOn ProfileSnapshot `json:"based_on"`

	// Metadata carries run diagnostics.
	Metadata RunMetadata `json:"metadata"`
}
