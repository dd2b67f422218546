// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/attune-app/attune/internal/config"
	"github.com/attune-app/attune/internal/events"
	"github.com/attune-app/attune/internal/middleware"
	"github.com/attune-app/attune/internal/recommend"
	"github.com/attune-app/attune/internal/store"
)

// timeFormat renders timestamps in API payloads.
const timeFormat = time.RFC3339

// Server holds the API's dependencies and routes.
type Server struct {
	store     *store.Store
	runner    *recommend.Runner
	publisher *events.Publisher
	auth      *Authenticator
	cfg       config.ServerConfig
}

// NewServer creates the API server.
func NewServer(cfg config.ServerConfig, st *store.Store, runner *recommend.Runner,
	publisher *events.Publisher, auth *Authenticator) *Server {
	return &Server{
		store:     st,
		runner:    runner,
		publisher: publisher,
		auth:      auth,
		cfg:       cfg,
	}
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(s.cfg.RateLimit, time.Minute))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Prometheus)

		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)

			r.Post("/onboarding/responses", s.handleSubmitOnboarding)

			r.Route("/recommendations", func(r chi.Router) {
				r.Post("/run", s.handleRunRecommendations)
				r.Get("/user/{uid}/latest", s.handleGetLatest)
				r.Get("/user/{uid}/runs/{runKey}", s.handleGetRun)
			})
		})
	})

	return r
}
