// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for codevox.
package cli

import (
	"fmt"
	"os"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdScan Command = iota
	CmdWatch
	CmdVersion
	CmdHelp
)

// Parse determines the command from os.Args and returns it with the
// remaining arguments. The default command is scan.
func Parse() (Command, []string) {
	args := os.Args[1:]
	if len(args) == 0 {
		return CmdScan, nil
	}

	switch args[0] {
	case "scan":
		return CmdScan, args[1:]
	case "watch":
		return CmdWatch, args[1:]
	case "version", "--version", "-v":
		return CmdVersion, args[1:]
	case "help", "--help", "-h":
		return CmdHelp, args[1:]
	default:
		// Unrecognized word: treat everything as scan flags.
		return CmdScan, args
	}
}

// HandleVersion prints version information.
func HandleVersion(args []string) error {
	fmt.Printf("codevox %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	return nil
}

// HandleHelp prints usage information.
func HandleHelp(args []string) error {
	fmt.Print(`codevox - render a codebase as a voxel scene

Usage:
  codevox [scan] [flags]    Scan a directory and print a scene summary
  codevox watch [flags]     Scan, then rescan on file changes until interrupted
  codevox version           Print version information
  codevox help              Print this help

Flags (scan and watch):
  --root <dir>       Directory to scan (default ".")
  --config <file>    TOML configuration file
  --out <file>       Write the scene as JSON ("-" for stdout)
  --map              Print a top-down map of the scene
  --batch <n>        Override the configured batch size
  --quiet            Suppress per-batch progress output

Environment:
  CODEVOX_BATCH_SIZE, CODEVOX_MAX_FILE_SIZE, CODEVOX_SCALE,
  CODEVOX_WATCH, CODEVOX_DEBOUNCE_MS override the configuration file.
`)
	return nil
}
