// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

// Package metrics defines the Prometheus instrumentation for Attune.
// Collectors are registered with the default registry via promauto and
// exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attune"

// Recommendation pipeline metrics.
var (
	// RunsTotal counts per-user pipeline runs by trigger and outcome.
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "runs_total",
		Help:      "Per-user recommendation pipeline runs.",
	}, []string{"trigger", "status"})

	// RunDuration observes per-user pipeline run latency.
	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "run_duration_seconds",
		Help:      "Per-user recommendation pipeline run latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"trigger"})

	// RecommendationsReturned observes ranked output sizes.
	RecommendationsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "recommendations_returned",
		Help:      "Number of recommendations returned per successful run.",
		Buckets:   []float64{0, 1, 2, 3, 4, 5},
	})

	// BatchUsersTotal counts users processed by scheduled batches, by outcome.
	BatchUsersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "batch_users_total",
		Help:      "Users processed by scheduled batch runs.",
	}, []string{"status"})

	// BatchDuration observes whole-batch execution latency.
	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "batch_duration_seconds",
		Help:      "Scheduled batch run latency.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)

// Event processing metrics.
var (
	// EventsConsumedTotal counts onboarding events consumed, by outcome.
	EventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "consumed_total",
		Help:      "Onboarding-completed events consumed.",
	}, []string{"status"})
)

// HTTP metrics.
var (
	// HTTPRequestsTotal counts API requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes API request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)
