// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package recommend

import "fmt"

// DefaultBatchSize is how many users one scheduled batch processes
// concurrently before the next batch starts.
const DefaultBatchSize = 100

// Config holds the engine's operational knobs. The scoring constants
// themselves are not configurable; they are versioned rules.
type Config struct {
	// MaxRecommendations caps the ranked output per user.
	MaxRecommendations int `koanf:"max_recommendations"`

	// BatchSize bounds scheduled-run fan-out.
	BatchSize int `koanf:"batch_size"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxRecommendations: MaxRecommendations,
		BatchSize:          DefaultBatchSize,
	}
}

// Validate checks configuration bounds.
func (c *Config) Validate() error {
	if c.MaxRecommendations <= 0 {
		return fmt.Errorf("max_recommendations must be positive, got %d", c.MaxRecommendations)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	return nil
}
