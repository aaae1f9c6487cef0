// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clipboard

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/logging"
)

func TestTracker_CopyMarksAndWritesVerbatim(t *testing.T) {
	var written string
	tr := NewTracker(Func(func(s string) error {
		written = s
		return nil
	}), time.Second)

	content := "line one\n  indented **bold**"
	seq, err := tr.Copy("msg_1", content)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if written != content {
		t.Errorf("clipboard got %q, want %q", written, content)
	}
	if !tr.IsCopied("msg_1") {
		t.Error("msg_1 should be copied")
	}
	if tr.IsCopied("msg_2") {
		t.Error("msg_2 was never copied")
	}

	if !tr.Expire("msg_1", seq) {
		t.Error("Expire with current seq should clear")
	}
	if tr.IsCopied("msg_1") {
		t.Error("msg_1 should no longer be copied")
	}
}

func TestTracker_StaleExpireIgnored(t *testing.T) {
	tr := NewTracker(Func(func(string) error { return nil }), time.Second)

	first, _ := tr.Copy("msg_1", "a")
	second, _ := tr.Copy("msg_1", "a")

	if tr.Expire("msg_1", first) {
		t.Error("expiry of the older copy must not clear the newer one")
	}
	if !tr.IsCopied("msg_1") {
		t.Error("msg_1 should still be copied")
	}
	if !tr.Expire("msg_1", second) {
		t.Error("expiry of the latest copy should clear")
	}
}

func TestTracker_FailureIsLoggedNotMarked(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf, slog.LevelDebug)
	defer logging.SetOutput(&bytes.Buffer{}, slog.LevelInfo)

	denied := errors.New("clipboard unavailable")
	tr := NewTracker(Func(func(string) error { return denied }), 0)

	_, err := tr.Copy("msg_1", "text")
	if !errors.Is(err, denied) {
		t.Errorf("Copy() error = %v, want %v", err, denied)
	}
	if tr.IsCopied("msg_1") {
		t.Error("failed copy must not mark the message")
	}
	if !strings.Contains(buf.String(), `"msg":"clipboard_denied"`) {
		t.Errorf("expected clipboard_denied log, got %s", buf.String())
	}
}

func TestNewTracker_Defaults(t *testing.T) {
	tr := NewTracker(nil, 0)
	if tr.Window() != DefaultWindow {
		t.Errorf("Window() = %v, want %v", tr.Window(), DefaultWindow)
	}
	if _, ok := tr.writer.(System); !ok {
		t.Errorf("nil writer should default to System, got %T", tr.writer)
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker(Func(func(string) error { return nil }), time.Second)
	tr.Copy("a", "x")
	tr.Copy("b", "y")
	tr.Reset()
	if tr.IsCopied("a") || tr.IsCopied("b") {
		t.Error("Reset should clear all copied state")
	}
}
