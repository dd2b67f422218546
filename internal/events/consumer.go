// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package events

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/attune-app/attune/internal/metrics"
	"github.com/attune-app/attune/internal/models"
	"github.com/attune-app/attune/internal/recommend"
)

// Consumer subscribes to onboarding events and runs the recommendation
// pipeline for completed submissions. Implements suture.Service.
type Consumer struct {
	sub    message.Subscriber
	runner *recommend.Runner
	logger zerolog.Logger
}

// NewConsumer creates an onboarding event consumer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConsumer(sub message.Subscriber, runner *recommend.Runner, logger zerolog.Logger) *Consumer {
	return &Consumer{
		sub:    sub,
		runner: runner,
		logger: logger.With().Str("component", "events-consumer").Logger(),
	}
}

// String names the service in supervisor logs.
func (c *Consumer) String() string {
	return "onboarding-event-consumer"
}

// Serve consumes events until the context is canceled.
func (c *Consumer) Serve(ctx context.Context) error {
	messages, err := c.sub.Subscribe(ctx, TopicOnboardingCompleted)
	if err != nil {
		return err
	}

	c.logger.Info().Str("topic", TopicOnboardingCompleted).Msg("consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return errors.New("subscription channel closed")
			}
			c.handle(ctx, msg)
		}
	}
}

// handle processes one event. Messages are always acked: the pipeline
// does not retry automatically, and a poisoned payload must not wedge
// the subscription.
func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var event OnboardingCompleted
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("malformed event payload")
		metrics.EventsConsumedTotal.WithLabelValues("malformed").Inc()
		return
	}

	// In-progress submissions are a filter condition, not an error.
	if event.Status != models.ResponseCompleted {
		c.logger.Debug().
			Str("uid", event.UserID).
			Str("status", event.Status).
			Msg("ignoring non-completed submission")
		metrics.EventsConsumedTotal.WithLabelValues("skipped").Inc()
		return
	}

	if _, err := c.runner.Run(ctx, event.UserID, recommend.TriggerOnboarding); err != nil {
		c.logger.Error().Err(err).Str("uid", event.UserID).Msg("onboarding-triggered run failed")
		metrics.EventsConsumedTotal.WithLabelValues("failed").Inc()
		return
	}

	metrics.EventsConsumedTotal.WithLabelValues("processed").Inc()
}
