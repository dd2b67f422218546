// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attune-app/attune/internal/logging"
	"github.com/attune-app/attune/internal/recommend"
	"github.com/attune-app/attune/internal/store"
	"github.com/attune-app/attune/internal/validation"
)

// runRequest is the body of POST /api/v1/recommendations/run.
type runRequest struct {
	UID string `json:"uid" validate:"required"`
}

// runResponse is the success payload of a manual run.
type runResponse struct {
	Message     string   `json:"message"`
	RunKey      string   `json:"run_key"`
	ContentIDs  []string `json:"content_ids"`
	GeneratedAt string   `json:"generated_at"`
}

// handleRunRecommendations triggers a synchronous single-user pipeline
// run. Eligibility failures map to distinct status codes: 404 for an
// unknown user, 409 for a user who cannot be recommended to yet.
func (s *Server) handleRunRecommendations(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeInvalidRequest, "malformed request body")
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	result, err := s.runner.Run(r.Context(), req.UID, recommend.TriggerManual)
	if err != nil {
		s.respondRunError(w, r, req.UID, err)
		return
	}

	respondOK(w, r, runResponse{
		Message:     "recommendations generated",
		RunKey:      result.RunKey,
		ContentIDs:  result.ContentIDs,
		GeneratedAt: result.GeneratedAt.Format(timeFormat),
	})
}

// respondRunError maps pipeline errors onto the API error taxonomy.
func (s *Server) respondRunError(w http.ResponseWriter, r *http.Request, uid string, err error) {
	switch {
	case errors.Is(err, recommend.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, CodeUserNotFound, "no such user")
	case errors.Is(err, recommend.ErrNotOnboarded):
		respondError(w, r, http.StatusConflict, CodeNotEligible, "user has no completed onboarding")
	case errors.Is(err, recommend.ErrNoAnswers):
		respondError(w, r, http.StatusConflict, CodeNotEligible, "onboarding submission has no answers")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("uid", uid).Msg("manual run failed")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "recommendation run failed")
	}
}

// handleGetLatest returns the user's most recent recommendation record.
func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	rec, err := s.store.GetLatestRecommendationRecord(r.Context(), uid)
	if err != nil {
		s.respondRecordError(w, r, err)
		return
	}
	respondOK(w, r, rec)
}

// handleGetRun returns one specific run's record.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	runKey := chi.URLParam(r, "runKey")

	rec, err := s.store.GetRecommendationRecord(r.Context(), uid, runKey)
	if err != nil {
		s.respondRecordError(w, r, err)
		return
	}
	respondOK(w, r, rec)
}

func (s *Server) respondRecordError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "no recommendations found")
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Msg("record read failed")
	respondError(w, r, http.StatusInternalServerError, CodeInternalError, "read failed")
}
