// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

// Package events carries the in-process event pipeline between the
// onboarding API and the recommendation engine, built on watermill's
// gochannel Pub/Sub. The watermill abstraction keeps the transport
// swappable for an external broker without touching publishers or
// consumers.
package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

// TopicOnboardingCompleted carries OnboardingCompleted events.
const TopicOnboardingCompleted = "onboarding.completed"

// OnboardingCompleted is published when an onboarding submission is
// stored. Consumers must check Status themselves: in-progress
// submissions are published too and filtered at consumption, mirroring
// the document-creation trigger semantics.
type OnboardingCompleted struct {
	// UserID is the submitting user.
	UserID string `json:"user_id"`

	// ResponseID is the stored submission.
	ResponseID string `json:"response_id"`

	// Status is the submission status at publish time.
	Status string `json:"status"`

	// OccurredAt is when the submission was stored.
	OccurredAt time.Time `json:"occurred_at"`
}

// NewPubSub creates the in-process Pub/Sub both ends attach to.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPubSub(logger zerolog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			// Buffer publishes so HTTP handlers never block on a slow
			// consumer.
			OutputChannelBuffer: 64,
		},
		newLoggerAdapter(logger),
	)
}

// loggerAdapter bridges watermill's logging onto zerolog.
type loggerAdapter struct {
	logger zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newLoggerAdapter(logger zerolog.Logger) watermill.LoggerAdapter {
	return &loggerAdapter{logger: logger.With().Str("component", "events").Logger()}
}

func (l *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.event(l.logger.Error().Err(err), fields).Msg(msg)
}

func (l *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.event(l.logger.Info(), fields).Msg(msg)
}

func (l *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	l.event(l.logger.Debug(), fields).Msg(msg)
}

func (l *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	l.event(l.logger.Trace(), fields).Msg(msg)
}

func (l *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	logger := l.logger
	for k, v := range fields {
		logger = logger.With().Interface(k, v).Logger()
	}
	return &loggerAdapter{logger: logger}
}

func (l *loggerAdapter) event(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
