// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// watch_cmd.go - The watch command: scan once, then rescan on file changes.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jeranaias/codevox/internal/cancel"
	"github.com/jeranaias/codevox/internal/config"
	"github.com/jeranaias/codevox/internal/parse"
	"github.com/jeranaias/codevox/internal/tasks"
	"github.com/jeranaias/codevox/internal/watch"
)

// HandleWatch performs an initial scan and keeps the scene current until
// interrupted.
func HandleWatch(args []string) error {
	flags, err := parseScanFlags("watch", args)
	if err != nil {
		return err
	}
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	return watchLoop(flags, cfg)
}

// watchLoop is the watch-mode body, shared with the scan command when the
// configuration enables watching.
func watchLoop(flags *scanFlags, cfg config.Config) error {
	tracker := tasks.NewTracker()
	registry := parse.NewRegistry()

	absRoot, err := filepath.Abs(flags.root)
	if err != nil {
		absRoot = flags.root
	}

	rescan := func() error {
		src := cancel.NewSource()
		result, err := runScan(tracker, cfg, absRoot, flags.progressSink(), src.Token())
		if err != nil {
			return err
		}
		printSummary(os.Stdout, result)
		if flags.showMap {
			fmt.Println()
			fmt.Print(result.Map(80))
			fmt.Println()
			fmt.Print(result.Legend(40))
		}
		return writeScene(result, flags.out)
	}

	if err := rescan(); err != nil {
		return &CommandError{Command: "watch", Reason: "initial scan failed", Err: err}
	}

	w, err := watch.New(absRoot, tracker, watch.Options{
		Debounce:          cfg.Watch.Debounce(),
		MinRescanInterval: cfg.Watch.MinRescanInterval(),
		IgnorePatterns:    cfg.Scan.Ignore,
		Supports:          registry.Supports,
	}, func() {
		if err := rescan(); err != nil {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("rescan failed: "+err.Error()))
		}
	})
	if err != nil {
		return &CommandError{Command: "watch", Reason: "cannot create watcher", Err: err}
	}
	if err := w.Start(); err != nil {
		w.Close()
		return &CommandError{Command: "watch", Reason: "cannot watch " + absRoot, Err: err}
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, InfoStyle.Render("watching "+absRoot+" (Ctrl-C to stop)"))

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch

	fmt.Fprintln(os.Stderr, InfoStyle.Render("stopping"))
	return nil
}
