// codevox - Render a codebase as a voxel scene from the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"github.com/jeranaias/codevox/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate

	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdScan:
		err = cli.HandleScan(args)
	case cli.CmdWatch:
		err = cli.HandleWatch(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		err = cli.HandleHelp(args)
	}

	cli.Exit(err)
}
