// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for codevox.
//
// Supports TOML configuration files with sensible defaults and environment
// variable overrides. Configuration is loaded by value: there is no global
// config instance, callers pass the loaded struct down explicitly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete codevox configuration.
type Config struct {
	// Scan controls enumeration and the batch pipeline
	Scan ScanConfig `toml:"scan"`

	// Layout controls the spiral placement of file regions
	Layout LayoutConfig `toml:"layout"`

	// Watch controls watch mode
	Watch WatchConfig `toml:"watch"`
}

// ScanConfig controls enumeration and the batch pipeline.
type ScanConfig struct {
	// BatchSize is the number of files parsed concurrently per batch
	BatchSize int `toml:"batch_size"`

	// MaxFileSize is the largest file to scan, in bytes (0 = unlimited)
	MaxFileSize int64 `toml:"max_file_size"`

	// Ignore are glob patterns matched against path base names
	Ignore []string `toml:"ignore"`
}

// LayoutConfig controls the spiral placement of file regions.
type LayoutConfig struct {
	// Scale is the spiral radius multiplier; larger values space file
	// regions further apart
	Scale float64 `toml:"scale"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// Enabled turns watch mode on by default (the CLI flag overrides)
	Enabled bool `toml:"enabled"`

	// DebounceMs is the quiet period after the last change before a rescan
	DebounceMs int `toml:"debounce_ms"`

	// MinRescanIntervalMs is the shortest allowed gap between rescans
	MinRescanIntervalMs int `toml:"min_rescan_interval_ms"`
}

// Debounce returns the debounce period as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// MinRescanInterval returns the rescan gap as a duration.
func (w WatchConfig) MinRescanInterval() time.Duration {
	return time.Duration(w.MinRescanIntervalMs) * time.Millisecond
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			BatchSize:   5,
			MaxFileSize: 10 * 1024 * 1024, // 10MB
			Ignore: []string{
				".git", ".svn", ".hg",
				"node_modules", "__pycache__", ".venv", "venv",
				"vendor", "target", "dist", "build",
				".idea", ".vscode", ".vs",
			},
		},
		Layout: LayoutConfig{
			Scale: 16,
		},
		Watch: WatchConfig{
			Enabled:             false,
			DebounceMs:          500,
			MinRescanIntervalMs: 2000,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from path, layering it over the defaults and
// applying environment overrides. An empty path means defaults plus
// environment only; a missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv applies CODEVOX_* environment variable overrides.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CODEVOX_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.BatchSize = n
		}
	}
	if v := os.Getenv("CODEVOX_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Scan.MaxFileSize = n
		}
	}
	if v := os.Getenv("CODEVOX_SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Layout.Scale = f
		}
	}
	if v := os.Getenv("CODEVOX_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Watch.Enabled = b
		}
	}
	if v := os.Getenv("CODEVOX_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Watch.DebounceMs = n
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.Scan.BatchSize < 1 {
		return fmt.Errorf("scan.batch_size must be at least 1, got %d", c.Scan.BatchSize)
	}
	if c.Scan.MaxFileSize < 0 {
		return fmt.Errorf("scan.max_file_size must not be negative, got %d", c.Scan.MaxFileSize)
	}
	if c.Layout.Scale <= 0 {
		return fmt.Errorf("layout.scale must be positive, got %g", c.Layout.Scale)
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMs)
	}
	if c.Watch.MinRescanIntervalMs < 0 {
		return fmt.Errorf("watch.min_rescan_interval_ms must not be negative, got %d", c.Watch.MinRescanIntervalMs)
	}
	return nil
}
