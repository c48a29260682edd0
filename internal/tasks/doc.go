// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tasks provides a registry for in-flight asynchronous operations
// and managed timers.
//
// Every background operation in codevox runs through a Tracker so that
// nothing executes unmanaged: the registry is the single source of truth for
// "what work is currently outstanding", which makes leak detection and
// cancellation verifiable from tests.
//
// # Key Types
//
//   - Tracker: registry of in-flight operations and pending timers
//   - TrackedTask: registry entry (id, description, start time)
//   - TimerHandle: cancellable handle for a managed single-shot timer
//
// # Usage
//
// Track an operation:
//
//	tracker := tasks.NewTracker()
//	err := tracker.Track("scan workspace", func() error {
//	    return pipeline.Run(items, parser, sink, token)
//	})
//
// Schedule a managed timer:
//
//	handle := tracker.ScheduleTimer(rescan, 500*time.Millisecond)
//	handle.Cancel() // before firing: handler never runs, entry removed
//
// Inspect outstanding work:
//
//	for _, t := range tracker.ActiveTasks() {
//	    fmt.Println(t.Description, time.Since(t.StartTime))
//	}
package tasks
