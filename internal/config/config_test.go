// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ATTUNE_AUTH__JWT_SECRET", "test-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Recommend.MaxRecommendations != 5 {
		t.Errorf("max_recommendations = %d, want 5", cfg.Recommend.MaxRecommendations)
	}
	if cfg.Recommend.BatchSize != 100 {
		t.Errorf("batch_size = %d, want 100", cfg.Recommend.BatchSize)
	}
	if cfg.Scheduler.Interval != 7*24*time.Hour {
		t.Errorf("interval = %v, want one week", cfg.Scheduler.Interval)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	t.Setenv("ATTUNE_AUTH__JWT_SECRET", "test-secret")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
recommend:
  batch_size: 25
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Recommend.BatchSize != 25 {
		t.Errorf("batch_size = %d, want 25", cfg.Recommend.BatchSize)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.RateLimit != 120 {
		t.Errorf("rate_limit = %d, want default 120", cfg.Server.RateLimit)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("ATTUNE_AUTH__JWT_SECRET", "test-secret")
	t.Setenv("ATTUNE_SERVER__PORT", "7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want env override 7070", cfg.Server.Port)
	}
}

func TestLoadRequiresSecretWhenAuthEnabled(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("expected error for missing jwt secret")
	}
}

func TestLoadAuthDisabledNeedsNoSecret(t *testing.T) {
	t.Setenv("ATTUNE_AUTH__DISABLED", "true")

	if _, err := Load(""); err != nil {
		t.Errorf("Load with auth disabled: %v", err)
	}
}
