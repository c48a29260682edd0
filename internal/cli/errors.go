// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for codevox CLI commands.
//
// Commands always return errors; the caller decides how to display them
// and which exit code to use. Errors must not be silently ignored.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/codevox/internal/cancel"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitCanceled indicates the operation was interrupted by the user
	ExitCanceled = 130
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "scan", "watch")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Command, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Command, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError represents invalid flags or arguments.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Reason
}

// ConfigError represents a configuration loading or validation failure.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// =============================================================================
// EXIT HANDLING
// =============================================================================

// Exit prints err (if any) to stderr and terminates with the matching code.
func Exit(err error) {
	if err == nil {
		os.Exit(ExitSuccess)
	}

	fmt.Fprintln(os.Stderr, ErrorStyle.Render("error: ")+err.Error())

	var usage *UsageError
	var cfg *ConfigError
	switch {
	case errors.Is(err, cancel.ErrCanceled):
		os.Exit(ExitCanceled)
	case errors.As(err, &usage):
		os.Exit(ExitUsageError)
	case errors.As(err, &cfg):
		os.Exit(ExitConfigError)
	default:
		os.Exit(ExitGeneralError)
	}
}
