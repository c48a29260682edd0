// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch triggers debounced rescans when watched source files change.
//
// Every delay goes through the task tracker's managed timers, so pending
// rescans are observable via ActiveTasks and cancellable on Close. A rate
// limiter caps rescan frequency regardless of event storms.
package watch

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/jeranaias/codevox/internal/tasks"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period after the last relevant event before a
	// rescan fires
	Debounce time.Duration

	// MinRescanInterval is the shortest allowed gap between rescans;
	// rescans arriving faster are pushed back, never dropped
	MinRescanInterval time.Duration

	// IgnorePatterns are glob patterns matched against base names;
	// matching directories are not watched
	IgnorePatterns []string

	// Supports filters events by file path (typically the parser
	// registry's extension check); nil means every file is relevant
	Supports func(path string) bool
}

// =============================================================================
// WATCHER
// =============================================================================

// Watcher watches a directory tree and invokes a rescan callback after file
// changes settle.
type Watcher struct {
	root    string
	tracker *tasks.Tracker
	opts    Options
	rescan  func()

	fsw     *fsnotify.Watcher
	limiter *rate.Limiter

	// mu guards pending and closed
	mu      sync.Mutex
	pending *tasks.TimerHandle
	closed  bool

	// inFlight gates Close on a rescan that already passed the closed
	// check
	inFlight sync.WaitGroup
}

// New creates a watcher over root. rescan runs on a timer goroutine after
// each debounced change burst; it should hand off to the tracker itself.
func New(root string, tracker *tasks.Tracker, opts Options, rescan func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.MinRescanInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.MinRescanInterval), 1)
	}

	return &Watcher{
		root:    root,
		tracker: tracker,
		opts:    opts,
		rescan:  rescan,
		fsw:     fsw,
		limiter: limiter,
	}, nil
}

// Start registers the directory tree and begins processing events.
func (w *Watcher) Start() error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// addRecursive adds a directory and all its subdirectories to the watch
// list, skipping ignored ones.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		if w.ignored(filepath.Base(path)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return nil // Non-fatal, keep walking
		}
		return nil
	})
}

// processEvents consumes fsnotify events until Close.
func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			// New directories join the watch list.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addRecursive(event.Name)
					continue
				}
			}

			if !w.relevant(event) {
				continue
			}
			w.bump()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

// relevant reports whether an event should schedule a rescan.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	if w.ignored(filepath.Base(event.Name)) {
		return false
	}
	if w.opts.Supports != nil && !w.opts.Supports(event.Name) {
		return false
	}
	return true
}

// bump re-arms the debounce timer. The previous pending timer is cancelled
// first, so exactly one rescan fires per change burst.
func (w *Watcher) bump() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Cancel()
	}
	w.pending = w.tracker.ScheduleTimer(w.fire, w.opts.Debounce)
}

// fire runs when the debounce period elapses. If the rate limiter refuses,
// the rescan is pushed back by the limiter's delay rather than dropped.
func (w *Watcher) fire() {
	w.mu.Lock()
	w.pending = nil
	if w.closed {
		w.mu.Unlock()
		return
	}

	r := w.limiter.Reserve()
	if delay := r.Delay(); delay > 0 {
		// Return the token before rescheduling: the reservation would
		// otherwise consume everything the bucket regenerates during
		// the wait, and every retry would be pushed back again.
		r.Cancel()
		w.pending = w.tracker.ScheduleTimer(w.fire, delay)
		w.mu.Unlock()
		return
	}
	w.inFlight.Add(1)
	w.mu.Unlock()

	w.rescan()
	w.inFlight.Done()
}

// ignored checks a base name against the ignore patterns.
func (w *Watcher) ignored(name string) bool {
	for _, pattern := range w.opts.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// Close cancels any pending rescan timer, waits for an in-flight rescan to
// finish, and stops the watcher. No rescan fires after Close returns.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.pending != nil {
		w.pending.Cancel()
		w.pending = nil
	}
	w.mu.Unlock()

	w.inFlight.Wait()
	return w.fsw.Close()
}
