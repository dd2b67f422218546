// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package api

import (
	"net/http"
	"time"
)

var startedAt = time.Now()

// handleHealth reports liveness. Unauthenticated.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, map[string]any{
		"status": "ok",
		"uptime": time.Since(startedAt).Round(time.Second).String(),
	})
}
