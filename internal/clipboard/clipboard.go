// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clipboard copies settled message text to the system clipboard and
// tracks the short-lived "Copied!" state per message.
//
// Copy state is presentational only. It is keyed by message id and never
// stored on the message itself. A failed write is logged and otherwise
// ignored by the conversation.
package clipboard

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/logging"
)

// DefaultWindow is how long a message shows as copied.
const DefaultWindow = 2 * time.Second

// Writer is the single clipboard capability the copy action needs.
type Writer interface {
	WriteAll(text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// WriteAll writes text to the system clipboard.
func (System) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard backend was found.
func (System) Available() bool {
	return !clipboard.Unsupported
}

// Func adapts a function to Writer.
type Func func(text string) error

// WriteAll calls f.
func (f Func) WriteAll(text string) error {
	return f(text)
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker performs copies and remembers which message was copied most
// recently. Expiry is driven by the caller (a tea.Tick in the TUI) using the
// sequence number returned by Copy, so a late expiry from an older copy
// cannot clear a newer one.
type Tracker struct {
	mu     sync.Mutex
	writer Writer
	window time.Duration
	seq    uint64
	copied map[string]uint64
}

// NewTracker creates a tracker. A nil writer uses the system clipboard and a
// non-positive window uses DefaultWindow.
func NewTracker(w Writer, window time.Duration) *Tracker {
	if w == nil {
		w = System{}
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		writer: w,
		window: window,
		copied: make(map[string]uint64),
	}
}

// Window returns how long the copied state lasts.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// Copy writes content verbatim and marks id as copied. On failure nothing is
// marked, the failure is logged as clipboard_denied, and the error is
// returned for callers that want it.
func (t *Tracker) Copy(id, content string) (uint64, error) {
	if err := t.writer.WriteAll(content); err != nil {
		logging.For("clipboard").Warn("clipboard_denied",
			"message_id", id,
			"bytes", len(content),
			"error", err.Error(),
		)
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.copied[id] = t.seq
	return t.seq, nil
}

// Expire clears the copied state of id if seq is still the latest copy of
// that message. It reports whether the state was cleared.
func (t *Tracker) Expire(id string, seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.copied[id]; ok && cur == seq {
		delete(t.copied, id)
		return true
	}
	return false
}

// IsCopied reports whether id is inside its copied window.
func (t *Tracker) IsCopied(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.copied[id]
	return ok
}

// Reset clears all copied state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.copied)
}
