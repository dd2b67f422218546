// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

// Package config loads Attune's layered configuration: struct defaults,
// then an optional YAML file, then ATTUNE_-prefixed environment
// variables. Later layers override earlier ones.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/attune-app/attune/internal/validation"
)

const envPrefix = "ATTUNE_"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Auth      AuthConfig      `koanf:"auth"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSAllowedOrigins lists origins allowed by CORS pre-flight.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimit is the per-IP request budget per minute.
	RateLimit int `koanf:"rate_limit" validate:"min=1"`
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	// Dir is the BadgerDB data directory.
	Dir string `koanf:"dir" validate:"required"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	// JWTSecret signs and verifies API bearer tokens. Required unless
	// auth is disabled for local development.
	JWTSecret string `koanf:"jwt_secret"`

	// Disabled turns off bearer-token checks. Never set in production.
	Disabled bool `koanf:"disabled"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig holds recommendation engine knobs.
type RecommendConfig struct {
	MaxRecommendations int `koanf:"max_recommendations" validate:"min=1"`
	BatchSize          int `koanf:"batch_size" validate:"min=1"`
}

// SchedulerConfig holds the weekly batch schedule.
type SchedulerConfig struct {
	// Interval between scheduled batch runs.
	Interval time.Duration `koanf:"interval" validate:"min=1m"`

	// Enabled toggles the scheduled trigger.
	Enabled bool `koanf:"enabled"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          120,
		},
		Store: StoreConfig{
			Dir: "./data",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			MaxRecommendations: 5,
			BatchSize:          100,
		},
		Scheduler: SchedulerConfig{
			Interval: 7 * 24 * time.Hour,
			Enabled:  true,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// and environment variables, then validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file %s: %w", path, err)
		}
	}

	// ATTUNE_SERVER__PORT=9090 → server.port
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for coherence.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.Auth.Disabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required unless auth.disabled is set")
	}
	return nil
}
