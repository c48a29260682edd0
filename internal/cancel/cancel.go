// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cancel provides a cancellation token/source pair for cooperative
// cancellation of long-running operations.
package cancel

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrCanceled is returned by operations that stopped because cancellation
// was requested. It is a first-class outcome, distinct from failure; callers
// should test for it with errors.Is.
var ErrCanceled = errors.New("operation canceled")

// =============================================================================
// TOKEN
// =============================================================================

// Token is a read-only capability to observe a "stop requested" signal.
//
// A Token is created together with a Source and passed by reference into
// every nested operation the Source should govern. Once cancelled it never
// reverts.
type Token struct {
	// requested flips to true exactly once, when the paired Source cancels
	requested atomic.Bool

	// done is closed on cancellation so tokens compose with select loops
	done chan struct{}

	// mu guards subs; subscribers are invoked at most once each
	mu   sync.Mutex
	subs []func()
}

// Cancelled reports whether cancellation has been requested.
func (t *Token) Cancelled() bool {
	return t.requested.Load()
}

// Err returns ErrCanceled if cancellation has been requested, nil otherwise.
func (t *Token) Err() error {
	if t.requested.Load() {
		return ErrCanceled
	}
	return nil
}

// Done returns a channel that is closed when cancellation is requested.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// OnCancel registers fn to be invoked when cancellation fires.
// If the token is already cancelled, fn is invoked immediately on the
// calling goroutine. Each registered function runs at most once.
func (t *Token) OnCancel(fn func()) {
	if fn == nil {
		return
	}

	t.mu.Lock()
	if t.requested.Load() {
		t.mu.Unlock()
		fn()
		return
	}
	t.subs = append(t.subs, fn)
	t.mu.Unlock()
}

// =============================================================================
// SOURCE
// =============================================================================

// Source owns the write side of a cancellation token.
//
// The owner of a logical operation creates the Source, hands the Token to
// the work it spawns, and may call Cancel at any time from any goroutine.
type Source struct {
	token *Token
	once  sync.Once
}

// NewSource creates a new cancellation source and its paired token.
func NewSource() *Source {
	return &Source{
		token: &Token{done: make(chan struct{})},
	}
}

// Token returns the read-only token paired with this source.
func (s *Source) Token() *Token {
	return s.token
}

// Cancel requests cancellation. It is safe to call from any goroutine and
// is idempotent: the flag flips once, the Done channel closes once, and
// each subscriber runs exactly once.
func (s *Source) Cancel() {
	s.once.Do(func() {
		t := s.token

		t.mu.Lock()
		t.requested.Store(true)
		subs := t.subs
		t.subs = nil
		t.mu.Unlock()

		close(t.done)
		for _, fn := range subs {
			fn()
		}
	})
}
