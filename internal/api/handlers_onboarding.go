// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/attune-app/attune/internal/events"
	"github.com/attune-app/attune/internal/logging"
	"github.com/attune-app/attune/internal/models"
	"github.com/attune-app/attune/internal/store"
	"github.com/attune-app/attune/internal/validation"
)

// onboardingAnswerRequest is one answer in an onboarding submission.
type onboardingAnswerRequest struct {
	QuestionID      string   `json:"question_id" validate:"required"`
	SelectedOptions []string `json:"selected_options"`
	FreeTextAnswer  string   `json:"free_text_answer"`
}

// onboardingRequest is the body of POST /api/v1/onboarding/responses.
type onboardingRequest struct {
	UserID  string                    `json:"user_id" validate:"required"`
	Status  string                    `json:"status" validate:"required,oneof=in_progress completed"`
	Answers []onboardingAnswerRequest `json:"answers" validate:"dive"`
}

// handleSubmitOnboarding stores an onboarding submission and publishes
// the completion event. Publication happens for every stored submission;
// the consumer filters on status, matching document-creation trigger
// semantics.
func (s *Server) handleSubmitOnboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeInvalidRequest, "malformed request body")
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	if _, err := s.store.GetUser(r.Context(), req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, CodeUserNotFound, "no such user")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("uid", req.UserID).Msg("user lookup failed")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "user lookup failed")
		return
	}

	now := time.Now().UTC()
	resp := &models.OnboardingResponse{
		ID:      uuid.New().String(),
		UserID:  req.UserID,
		Status:  req.Status,
		Answers: make([]models.OnboardingAnswer, len(req.Answers)),
	}
	if req.Status == models.ResponseCompleted {
		resp.CompletedAt = &now
	}
	for i, a := range req.Answers {
		answeredAt := now
		resp.Answers[i] = models.OnboardingAnswer{
			QuestionID:      a.QuestionID,
			SelectedOptions: a.SelectedOptions,
			FreeTextAnswer:  a.FreeTextAnswer,
			AnsweredAt:      &answeredAt,
		}
	}

	if err := s.store.PutOnboardingResponse(r.Context(), resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("uid", req.UserID).Msg("store submission failed")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "store submission failed")
		return
	}

	event := &events.OnboardingCompleted{
		UserID:     req.UserID,
		ResponseID: resp.ID,
		Status:     resp.Status,
		OccurredAt: now,
	}
	if err := s.publisher.PublishOnboardingCompleted(event); err != nil {
		// The submission is stored; recommendations can still be
		// produced by the scheduled or manual triggers.
		logging.Ctx(r.Context()).Error().Err(err).Str("uid", req.UserID).Msg("publish onboarding event failed")
	}

	respondOK(w, r, map[string]string{
		"response_id": resp.ID,
		"status":      resp.Status,
	})
}
