// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// scan_cmd.go - The scan command: enumerate, parse, lay out, report.
package cli

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/jeranaias/codevox/internal/cancel"
	"github.com/jeranaias/codevox/internal/config"
	"github.com/jeranaias/codevox/internal/parse"
	"github.com/jeranaias/codevox/internal/scan"
	"github.com/jeranaias/codevox/internal/scene"
	"github.com/jeranaias/codevox/internal/tasks"
	"github.com/jeranaias/codevox/internal/util"
)

// scanFlags holds the flag values shared by scan and watch.
type scanFlags struct {
	root       string
	configPath string
	out        string
	showMap    bool
	batch      int
	quiet      bool
}

// parseScanFlags parses the shared flag set.
func parseScanFlags(name string, args []string) (*scanFlags, error) {
	f := &scanFlags{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&f.root, "root", ".", "directory to scan")
	fs.StringVar(&f.configPath, "config", "", "TOML configuration file")
	fs.StringVar(&f.out, "out", "", `write the scene as JSON ("-" for stdout)`)
	fs.BoolVar(&f.showMap, "map", false, "print a top-down map of the scene")
	fs.IntVar(&f.batch, "batch", 0, "override the configured batch size")
	fs.BoolVar(&f.quiet, "quiet", false, "suppress per-batch progress output")

	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{Reason: err.Error()}
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{Reason: fmt.Sprintf("unexpected argument %q", fs.Arg(0))}
	}
	return f, nil
}

// loadConfig loads configuration and applies flag overrides.
func (f *scanFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, &ConfigError{Err: err}
	}
	if f.batch > 0 {
		cfg.Scan.BatchSize = f.batch
	}
	return cfg, nil
}

// HandleScan runs a single scan and reports the scene.
func HandleScan(args []string) error {
	flags, err := parseScanFlags("scan", args)
	if err != nil {
		return err
	}
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}

	// watch.enabled (or CODEVOX_WATCH) turns a plain scan into watch mode.
	if cfg.Watch.Enabled {
		return watchLoop(flags, cfg)
	}

	tracker := tasks.NewTracker()
	src := cancel.NewSource()
	stopOnInterrupt(src)

	result, err := runScan(tracker, cfg, flags.root, flags.progressSink(), src.Token())
	if err != nil {
		return &CommandError{Command: "scan", Reason: "scan did not complete", Err: err}
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

// stopOnInterrupt cancels the source on the first SIGINT/SIGTERM, letting
// the in-flight batch drain and the scan return partial results.
func stopOnInterrupt(src *cancel.Source) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		fmt.Fprintln(os.Stderr, WarnStyle.Render("interrupt: finishing current batch"))
		src.Cancel()
	}()
}

// progressSink builds the per-batch progress reporter, or nil when quiet.
func (f *scanFlags) progressSink() scan.ProgressSink {
	if f.quiet {
		return nil
	}
	return scan.ProgressFunc(func(message string, inc float64, current, total int) {
		fmt.Fprintf(os.Stderr, "\r%s", InfoStyle.Render(fmt.Sprintf("scanning %d/%d files", current, total)))
		if current == total {
			fmt.Fprintln(os.Stderr)
		}
	})
}

// runScan performs one full scan as a tracked operation and assembles the
// scene. Cancellation yields the completed batches with Partial set instead
// of an error.
func runScan(tracker *tasks.Tracker, cfg config.Config, root string, sink scan.ProgressSink, token *cancel.Token) (*scene.Scene, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	registry := parse.NewRegistry()

	return tasks.TrackValue(tracker, "scan "+absRoot, func() (*scene.Scene, error) {
		started := time.Now()

		items, err := scan.Enumerate(absRoot, scan.EnumerateOptions{
			IgnorePatterns: cfg.Scan.Ignore,
			MaxFileSize:    cfg.Scan.MaxFileSize,
		}, registry.Supports)
		if err != nil {
			return nil, err
		}

		languages := make(map[string]int)
		for _, item := range items {
			languages[parse.DetectLanguage(item.Path)]++
		}

		pipe := scan.NewPipeline(cfg.Scan.BatchSize, cfg.Layout.Scale)
		blocks, err := pipe.Run(items, registry, sink, token)
		partial := errors.Is(err, scan.ErrScanCanceled)
		if err != nil && !partial {
			return nil, err
		}

		return &scene.Scene{
			Root:      absRoot,
			Files:     len(items),
			Languages: languages,
			Blocks:    blocks,
			Duration:  time.Since(started),
			Partial:   partial,
		}, nil
	})
}

// printSummary writes the human-readable scan report.
func printSummary(w io.Writer, s *scene.Scene) {
	fmt.Fprintln(w, TitleStyle.Render("codevox scan"))
	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render(label+":"), ValueStyle.Render(value))
	}

	row("root", s.Root)
	row("files", fmt.Sprintf("%d", s.Files))
	row("blocks", fmt.Sprintf("%d", len(s.Blocks)))
	row("duration", s.Duration.Round(time.Millisecond).String())

	langs := make([]string, 0, len(s.Languages))
	for lang := range s.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		row(lang, fmt.Sprintf("%d files", s.Languages[lang]))
	}

	if len(s.Blocks) > 0 {
		b := s.Bounds()
		row("bounds", fmt.Sprintf("x [%d,%d]  y [%d,%d]  z [%d,%d]",
			b.MinX, b.MaxX, b.MinY, b.MaxY, b.MinZ, b.MaxZ))
	}
	if s.Partial {
		fmt.Fprintln(w, WarnStyle.Render("  partial: scan was cancelled before completing"))
	}
}

// writeScene exports the scene as JSON when requested.
func writeScene(s *scene.Scene, out string) error {
	switch out {
	case "":
		return nil
	case "-":
		return s.WriteJSON(os.Stdout)
	default:
		// Atomic replace: watch mode rewrites the export on every
		// rescan, and readers must never see a truncated file.
		var buf bytes.Buffer
		if err := s.WriteJSON(&buf); err != nil {
			return &CommandError{Command: "scan", Reason: "cannot encode scene", Err: err}
		}
		if err := util.AtomicWriteFile(out, buf.Bytes(), 0644); err != nil {
			return &CommandError{Command: "scan", Reason: "cannot write scene", Err: err}
		}
		return nil
	}
}
