// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attune-app/attune/internal/logging"
)

func TestRequestIDGenerated(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = logging.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if captured == "" {
		t.Error("no request ID in context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != captured {
		t.Errorf("response header = %q, context = %q", got, captured)
	}
}

func TestRequestIDHonorsInbound(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = logging.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "upstream-id" {
		t.Errorf("request ID = %q, want upstream-id", captured)
	}
}
