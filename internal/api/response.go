// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

// Package api exposes Attune's HTTP surface: recommendation runs and
// reads, onboarding ingestion, health, and metrics.
package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/attune-app/attune/internal/logging"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta carries response metadata.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
}

// Error codes returned by the API.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeUserNotFound   = "USER_NOT_FOUND"
	CodeNotFound       = "NOT_FOUND"
	CodeNotEligible    = "NOT_ELIGIBLE"
	CodeInternalError  = "INTERNAL_ERROR"
)

// respondJSON writes the envelope with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, resp APIResponse) {
	if id := logging.RequestIDFromContext(r.Context()); id != "" {
		if resp.Meta == nil {
			resp.Meta = &Meta{}
		}
		resp.Meta.RequestID = id
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("encode response")
	}
}

// respondOK writes a success envelope.
func respondOK(w http.ResponseWriter, r *http.Request, data any) {
	respondJSON(w, r, http.StatusOK, APIResponse{Success: true, Data: data})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, r, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// decodeBody decodes a JSON request body into v, rejecting unknown
// fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
