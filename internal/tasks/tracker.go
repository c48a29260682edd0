// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tracker.go - The task registry and managed timers.
package tasks

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// TRACKED TASK
// =============================================================================

// TrackedTask is one registry entry: an in-flight operation or pending timer.
type TrackedTask struct {
	// ID is a unique identifier for this task
	ID string

	// Description is a human-readable description of what this task does
	Description string

	// StartTime is when the task was registered
	StartTime time.Time

	// seq orders snapshots by registration, independent of clock resolution
	seq uint64
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker is a registry of in-flight asynchronous operations and pending
// timers. Construct one per process and pass it by reference into every
// component that schedules background work.
//
// Invariants: exactly one registry mutation on entry and one on exit per
// task, regardless of outcome; an id, once removed, is never re-inserted.
type Tracker struct {
	// mu protects tasks and seq
	mu sync.Mutex

	// tasks maps task id to its registry entry
	tasks map[string]TrackedTask

	// seq is a monotonic registration counter
	seq uint64
}

// NewTracker creates an empty task tracker.
func NewTracker() *Tracker {
	return &Tracker{
		tasks: make(map[string]TrackedTask),
	}
}

// register adds a new entry and returns its task.
func (tr *Tracker) register(description string) TrackedTask {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.seq++
	task := TrackedTask{
		ID:          uuid.New().String(),
		Description: description,
		StartTime:   time.Now(),
		seq:         tr.seq,
	}
	tr.tasks[task.ID] = task
	return task
}

// remove deletes an entry. Removal is idempotent but by construction each
// id is removed exactly once.
func (tr *Tracker) remove(id string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	delete(tr.tasks, id)
}

// =============================================================================
// TRACKING OPERATIONS
// =============================================================================

// Track registers the operation, runs it to completion, and guarantees the
// registry entry is removed on every exit path. Success and failure are
// logged with the elapsed duration; the operation's error is returned
// unchanged, never wrapped or swallowed.
func (tr *Tracker) Track(description string, op func() error) error {
	_, err := TrackValue(tr, description, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}

// TrackValue is Track for operations that produce a value.
func TrackValue[T any](tr *Tracker, description string, op func() (T, error)) (T, error) {
	task := tr.register(description)

	var err error
	defer func() {
		tr.remove(task.ID)
		elapsed := time.Since(task.StartTime)
		if err != nil {
			log.Printf("task failed: %s (%.2fs): %v", description, elapsed.Seconds(), err)
		} else {
			log.Printf("task complete: %s (%.2fs)", description, elapsed.Seconds())
		}
	}()

	var result T
	result, err = op()
	return result, err
}

// =============================================================================
// MANAGED TIMERS
// =============================================================================

// TimerHandle is returned by ScheduleTimer. Cancel before firing guarantees
// the handler never runs and the registry entry is removed synchronously;
// Cancel after firing is a no-op.
type TimerHandle struct {
	tr    *Tracker
	id    string
	timer *time.Timer

	// fired and cancelled are guarded by tr.mu; together they make the
	// fire/cancel race deterministic: whichever takes the lock first wins.
	fired     bool
	cancelled bool
}

// ScheduleTimer registers a pending timer and arms a single-shot delayed
// execution of handler. The registry entry is removed before the handler is
// invoked, so a firing timer never lingers as active work.
func (tr *Tracker) ScheduleTimer(handler func(), delay time.Duration) *TimerHandle {
	task := tr.register("timer (" + delay.String() + ")")

	h := &TimerHandle{tr: tr, id: task.ID}
	h.timer = time.AfterFunc(delay, func() {
		tr.mu.Lock()
		if h.cancelled || h.fired {
			tr.mu.Unlock()
			return
		}
		h.fired = true
		delete(tr.tasks, h.id)
		tr.mu.Unlock()

		handler()
	})
	return h
}

// Cancel prevents the timer from firing and removes its registry entry.
// Safe to call at any time and from any goroutine.
func (h *TimerHandle) Cancel() {
	h.tr.mu.Lock()
	if h.cancelled || h.fired {
		h.tr.mu.Unlock()
		return
	}
	h.cancelled = true
	delete(h.tr.tasks, h.id)
	h.tr.mu.Unlock()

	h.timer.Stop()
}

// =============================================================================
// OBSERVABILITY
// =============================================================================

// ActiveTasks returns a snapshot of the registry, ordered by registration.
func (tr *Tracker) ActiveTasks() []TrackedTask {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	result := make([]TrackedTask, 0, len(tr.tasks))
	for _, task := range tr.tasks {
		result = append(result, task)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].seq < result[j].seq
	})
	return result
}

// ActiveCount returns the number of outstanding tasks.
func (tr *Tracker) ActiveCount() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.tasks)
}
