// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/attune-app/attune/internal/logging"
	"github.com/attune-app/attune/internal/models"
	"github.com/attune-app/attune/internal/recommend"
	"github.com/attune-app/attune/internal/store"
)

func seedOnboardedUser(t *testing.T, s *store.Store, uid string) {
	t.Helper()
	ctx := context.Background()
	completed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := s.PutUser(ctx, &models.User{ID: uid, OnboardingCompleted: true}); err != nil {
		t.Fatalf("PutUser: %v", err)
	}
	resp := &models.OnboardingResponse{
		ID:     "resp-" + uid,
		UserID: uid,
		Status: models.ResponseCompleted,
		Answers: []models.OnboardingAnswer{
			{QuestionID: recommend.QuestionIntentions, SelectedOptions: []string{"reduce_stress"}},
			{QuestionID: recommend.QuestionPracticeLevels, SelectedOptions: []string{"meditation:beginner"}},
		},
		CompletedAt: &completed,
	}
	if err := s.PutOnboardingResponse(ctx, resp); err != nil {
		t.Fatalf("PutOnboardingResponse: %v", err)
	}
	item := &models.ContentItem{
		ID: "c1", Discipline: "meditation", Difficulty: "beginner",
		DurationSeconds: 600, PublicationState: models.PublicationReady,
	}
	if err := s.PutContentItem(ctx, item); err != nil {
		t.Fatalf("PutContentItem: %v", err)
	}
}

func startConsumer(t *testing.T, s *store.Store) *Publisher {
	t.Helper()

	logger := logging.Logger()
	pubsub := NewPubSub(logger)
	t.Cleanup(func() {
		if err := pubsub.Close(); err != nil {
			t.Errorf("close pubsub: %v", err)
		}
	})

	runner, err := recommend.NewRunner(recommend.DefaultConfig(), s, logger)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	consumer := NewConsumer(pubsub, runner, logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		if err := consumer.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve: %v", err)
		}
	}()
	// Give the subscription a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	return NewPublisher(pubsub)
}

func waitForRecord(s *store.Store, uid, runKey string, timeout time.Duration) (*models.RecommendationRecord, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		rec, err := s.GetRecommendationRecord(context.Background(), uid, runKey)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil, store.ErrNotFound
}

func TestConsumerRunsPipelineOnCompletedEvent(t *testing.T) {
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	defer s.Close()
	seedOnboardedUser(t, s, "u1")

	publisher := startConsumer(t, s)

	event := &OnboardingCompleted{
		UserID:     "u1",
		ResponseID: "resp-u1",
		Status:     models.ResponseCompleted,
		OccurredAt: time.Now().UTC(),
	}
	if err := publisher.PublishOnboardingCompleted(event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	rec, err := waitForRecord(s, "u1", "onboarding", 2*time.Second)
	if err != nil {
		t.Fatalf("no record after completed event: %v", err)
	}
	if rec.Metadata.Trigger != string(recommend.TriggerOnboarding) {
		t.Errorf("trigger = %q, want onboarding", rec.Metadata.Trigger)
	}
}

func TestConsumerIgnoresInProgressSubmission(t *testing.T) {
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	defer s.Close()
	seedOnboardedUser(t, s, "u1")

	publisher := startConsumer(t, s)

	event := &OnboardingCompleted{
		UserID:     "u1",
		ResponseID: "resp-u1",
		Status:     models.ResponseInProgress,
		OccurredAt: time.Now().UTC(),
	}
	if err := publisher.PublishOnboardingCompleted(event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	// The consumer must not run the pipeline for in-progress submissions.
	if _, err := waitForRecord(s, "u1", "onboarding", 300*time.Millisecond); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected no record, got err=%v", err)
	}
}
