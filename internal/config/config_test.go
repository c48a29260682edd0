// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Scan.BatchSize != 5 {
		t.Errorf("default batch size should be 5, got %d", cfg.Scan.BatchSize)
	}
	if cfg.Layout.Scale != 16 {
		t.Errorf("default scale should be 16, got %g", cfg.Layout.Scale)
	}
	if cfg.Watch.Enabled {
		t.Error("watch mode should default to off")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[scan]
batch_size = 8
ignore = [".git"]

[layout]
scale = 24.0

[watch]
enabled = true
debounce_ms = 250
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Scan.BatchSize != 8 {
		t.Errorf("expected batch size 8, got %d", cfg.Scan.BatchSize)
	}
	if len(cfg.Scan.Ignore) != 1 || cfg.Scan.Ignore[0] != ".git" {
		t.Errorf("ignore list should be replaced by the file, got %v", cfg.Scan.Ignore)
	}
	if cfg.Layout.Scale != 24 {
		t.Errorf("expected scale 24, got %g", cfg.Layout.Scale)
	}
	if !cfg.Watch.Enabled || cfg.Watch.Debounce() != 250*time.Millisecond {
		t.Errorf("unexpected watch config: %+v", cfg.Watch)
	}

	// Sections absent from the file keep their defaults.
	if cfg.Scan.MaxFileSize != 10*1024*1024 {
		t.Errorf("max file size should keep its default, got %d", cfg.Scan.MaxFileSize)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("an explicit missing config path should be an error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CODEVOX_BATCH_SIZE", "3")
	t.Setenv("CODEVOX_WATCH", "true")
	t.Setenv("CODEVOX_SCALE", "32")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Scan.BatchSize != 3 {
		t.Errorf("env should override batch size, got %d", cfg.Scan.BatchSize)
	}
	if !cfg.Watch.Enabled {
		t.Error("env should enable watch mode")
	}
	if cfg.Layout.Scale != 32 {
		t.Errorf("env should override scale, got %g", cfg.Layout.Scale)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.Scan.BatchSize = 0 },
		func(c *Config) { c.Scan.MaxFileSize = -1 },
		func(c *Config) { c.Layout.Scale = 0 },
		func(c *Config) { c.Watch.DebounceMs = -1 },
	}

	for i, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected a validation error", i)
		}
	}
}

func TestEnvRejectedByValidation(t *testing.T) {
	t.Setenv("CODEVOX_BATCH_SIZE", "0")

	if _, err := Load(""); err == nil {
		t.Error("invalid env override should fail validation")
	}
}
