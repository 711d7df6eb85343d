// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Listener subscribes to a [Source] for one session and forwards
// accepted embedding sets to OnData.
type Listener struct {

	// SessionID selects the push channel. With an empty id the
	// listener is inert.
	SessionID string

	// Source delivers the raw messages.
	Source Source

	// OnData receives each accepted embedding set. It is called on the
	// source's goroutine and must not block.
	OnData func(embeddings [][]float32)

	mu          sync.Mutex
	unsubscribe func()
	started     bool
	closed      atomic.Bool
}

// NewListener returns a new [Listener].
func NewListener(source Source, sessionID string, onData func(embeddings [][]float32)) *Listener {
	return &Listener{SessionID: sessionID, Source: source, OnData: onData}
}

// Active reports whether the listener is subscribed.
func (ls *Listener) Active() bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.unsubscribe != nil && !ls.closed.Load()
}

// Start subscribes to the source. It does nothing when there is no
// session id or no source, and when the listener is already started
// or closed.
func (ls *Listener) Start(ctx context.Context) error {
	if ls.SessionID == "" || ls.Source == nil {
		slog.Debug("live: no session, listener inactive")
		return nil
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.started || ls.closed.Load() {
		return nil
	}
	unsub, err := ls.Source.Subscribe(ctx, ls.SessionID, func(msg []byte) { ls.Handle(msg) })
	if err != nil {
		return fmt.Errorf("live: subscribe to session %q: %w", ls.SessionID, err)
	}
	ls.started = true
	ls.unsubscribe = unsub
	slog.Info("live: listening", "session", ls.SessionID)
	return nil
}

// Handle processes one raw message and reports whether it was accepted.
// Anything other than a well-formed embeddings update is logged and dropped.
func (ls *Listener) Handle(msg []byte) bool {
	if ls.closed.Load() {
		return false
	}
	um, err := ParseUpdate(msg)
	if err != nil {
		slog.Warn("live: dropping message", "session", ls.SessionID, "err", err)
		return false
	}
	if ls.OnData != nil {
		ls.OnData(*um.Embeddings)
	}
	return true
}

// Close unsubscribes from the source. It is safe to call more than once.
func (ls *Listener) Close() {
	if !ls.closed.CompareAndSwap(false, true) {
		return
	}
	ls.mu.Lock()
	unsub := ls.unsubscribe
	ls.unsubscribe = nil
	ls.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
