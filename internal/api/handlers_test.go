// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/attune-app/attune/internal/config"
	"github.com/attune-app/attune/internal/events"
	"github.com/attune-app/attune/internal/logging"
	"github.com/attune-app/attune/internal/models"
	"github.com/attune-app/attune/internal/recommend"
	"github.com/attune-app/attune/internal/store"
)

const testSecret = "test-secret"

func newTestHandler(t *testing.T, authDisabled bool) (http.Handler, *store.Store) {
	t.Helper()

	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	logger := logging.Logger()
	runner, err := recommend.NewRunner(recommend.DefaultConfig(), s, logger)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	pubsub := events.NewPubSub(logger)
	t.Cleanup(func() { pubsub.Close() })

	cfg := config.Default().Server
	server := NewServer(cfg, s, runner, events.NewPublisher(pubsub),
		NewAuthenticator(testSecret, authDisabled))
	return server.Router(), s
}

func seedEligibleUser(t *testing.T, s *store.Store, uid string) {
	t.Helper()
	ctx := context.Background()
	completed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := s.PutUser(ctx, &models.User{ID: uid, OnboardingCompleted: true}); err != nil {
		t.Fatalf("PutUser: %v", err)
	}
	resp := &models.OnboardingResponse{
		ID: "resp-" + uid, UserID: uid, Status: models.ResponseCompleted,
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

func doRequest(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var envelope APIResponse
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal envelope: %v (body: %s)", err, rec.Body.String())
		}
	}
	return rec, envelope
}

func TestRunEndpointSuccess(t *testing.T) {
	handler, s := newTestHandler(t, true)
	seedEligibleUser(t, s, "u1")

	rec, envelope := doRequest(t, handler, http.MethodPost,
		"/api/v1/recommendations/run", `{"uid":"u1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if !envelope.Success {
		t.Error("success = false, want true")
	}

	latest, err := s.GetLatestRecommendationRecord(context.Background(), "u1")
	if err != nil {
		t.Fatalf("no latest record after run: %v", err)
	}
	if latest.Metadata.Trigger != string(recommend.TriggerManual) {
		t.Errorf("trigger = %q, want manual", latest.Metadata.Trigger)
	}
}

func TestRunEndpointMissingUID(t *testing.T) {
	handler, _ := newTestHandler(t, true)

	rec, envelope := doRequest(t, handler, http.MethodPost,
		"/api/v1/recommendations/run", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != CodeInvalidRequest {
		t.Errorf("error = %+v, want %s", envelope.Error, CodeInvalidRequest)
	}
}

func TestRunEndpointMalformedBody(t *testing.T) {
	handler, _ := newTestHandler(t, true)

	rec, _ := doRequest(t, handler, http.MethodPost,
		"/api/v1/recommendations/run", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRunEndpointUserNotFound(t *testing.T) {
	handler, _ := newTestHandler(t, true)

	rec, envelope := doRequest(t, handler, http.MethodPost,
		"/api/v1/recommendations/run", `{"uid":"ghost"}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != CodeUserNotFound {
		t.Errorf("error = %+v, want %s", envelope.Error, CodeUserNotFound)
	}
}

func TestRunEndpointNotEligible(t *testing.T) {
	handler, s := newTestHandler(t, true)
	// User exists but never completed onboarding.
	if err := s.PutUser(context.Background(), &models.User{ID: "u1"}); err != nil {
		t.Fatalf("PutUser: %v", err)
	}

	rec, envelope := doRequest(t, handler, http.MethodPost,
		"/api/v1/recommendations/run", `{"uid":"u1"}`)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != CodeNotEligible {
		t.Errorf("error = %+v, want %s", envelope.Error, CodeNotEligible)
	}
}

func TestRunEndpointRequiresAuth(t *testing.T) {
	handler, _ := newTestHandler(t, false)

	rec, envelope := doRequest(t, handler, http.MethodPost,
		"/api/v1/recommendations/run", `{"uid":"u1"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != CodeUnauthorized {
		t.Errorf("error = %+v, want %s", envelope.Error, CodeUnauthorized)
	}
}

func TestRunEndpointAcceptsValidToken(t *testing.T) {
	handler, s := newTestHandler(t, false)
	seedEligibleUser(t, s, "u1")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/run",
		strings.NewReader(`{"uid":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestGetLatestNotFound(t *testing.T) {
	handler, _ := newTestHandler(t, true)

	rec, envelope := doRequest(t, handler, http.MethodGet,
		"/api/v1/recommendations/user/u1/latest", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != CodeNotFound {
		t.Errorf("error = %+v, want %s", envelope.Error, CodeNotFound)
	}
}

func TestGetLatestAfterRun(t *testing.T) {
	handler, s := newTestHandler(t, true)
	seedEligibleUser(t, s, "u1")

	if rec, _ := doRequest(t, handler, http.MethodPost,
		"/api/v1/recommendations/run", `{"uid":"u1"}`); rec.Code != http.StatusOK {
		t.Fatalf("run status = %d", rec.Code)
	}

	rec, envelope := doRequest(t, handler, http.MethodGet,
		"/api/v1/recommendations/user/u1/latest", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !envelope.Success {
		t.Error("success = false")
	}

	// The run is also readable under its run key.
	rec, _ = doRequest(t, handler, http.MethodGet,
		"/api/v1/recommendations/user/u1/runs/manual", "")
	if rec.Code != http.StatusOK {
		t.Errorf("run-key read status = %d, want 200", rec.Code)
	}
}

func TestSubmitOnboardingStoresResponse(t *testing.T) {
	handler, s := newTestHandler(t, true)
	if err := s.PutUser(context.Background(), &models.User{ID: "u1"}); err != nil {
		t.Fatalf("PutUser: %v", err)
	}

	body := `{
		"user_id": "u1",
		"status": "completed",
		"answers": [
			{"question_id": "intentions", "selected_options": ["reduce_stress"]}
		]
	}`
	rec, envelope := doRequest(t, handler, http.MethodPost,
		"/api/v1/onboarding/responses", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if !envelope.Success {
		t.Error("success = false")
	}

	stored, err := s.GetLatestCompletedResponse(context.Background(), "u1")
	if err != nil {
		t.Fatalf("submission not stored: %v", err)
	}
	if len(stored.Answers) != 1 || stored.Answers[0].QuestionID != "intentions" {
		t.Errorf("stored answers = %+v", stored.Answers)
	}
}

func TestSubmitOnboardingRejectsBadStatus(t *testing.T) {
	handler, _ := newTestHandler(t, true)

	rec, _ := doRequest(t, handler, http.MethodPost,
		"/api/v1/onboarding/responses", `{"user_id":"u1","status":"bogus"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthIsUnauthenticated(t *testing.T) {
	handler, _ := newTestHandler(t, false)

	rec, envelope := doRequest(t, handler, http.MethodGet, "/api/v1/health", "")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !envelope.Success {
		t.Error("success = false")
	}
}

func TestCORSPreflight(t *testing.T) {
	handler, _ := newTestHandler(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommendations/run", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
}
