// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Centralized styling for codevox CLI output.
//
// Color handling:
// - Colors are automatically disabled for non-TTY output (piped, redirected)
// - Respects NO_COLOR environment variable (https://no-color.org/)
package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// init configures lipgloss color profile based on terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// GetColorProfile returns the appropriate termenv color profile.
// Returns Ascii (no colors) when NO_COLOR is set or output is not a TTY.
func GetColorProfile() termenv.Profile {
	if termenv.EnvNoColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// LabelStyle is used for summary field names
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Gray

	// ValueStyle is used for summary field values
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")) // White

	// InfoStyle is used for progress and informational output
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	// WarnStyle is used for partial-result notices
	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange

	// ErrorStyle is used for error output
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203")) // Red
)
