// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

// Publisher publishes onboarding events.
type Publisher struct {
	pub message.Publisher
}

// NewPublisher creates a publisher over the given transport.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// PublishOnboardingCompleted emits an OnboardingCompleted event.
func (p *Publisher) PublishOnboardingCompleted(event *OnboardingCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pub.Publish(TopicOnboardingCompleted, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicOnboardingCompleted, err)
	}
	return nil
}
