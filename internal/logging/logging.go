// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the structured logger shared by all packages.
//
// The terminal belongs to the TUI, so records go to a JSON log file instead
// of stdout/stderr. Packages obtain a component-scoped logger with For and
// log snake_case event names with key/value attributes:
//
//	log := logging.For("reply")
//	log.Info("reply_request", "endpoint", url, "bytes", len(body))
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu   sync.RWMutex
	base = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

// ParseLevel maps a config level name to a slog level. Unknown names map to
// info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup points the shared logger at a JSON file. The returned closer flushes
// and closes the file; callers defer it in main.
func Setup(path string, level slog.Level) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	SetOutput(f, level)
	return f, nil
}

// SetOutput replaces the shared logger's destination. Tests use it to capture
// records in a buffer.
func SetOutput(w io.Writer, level slog.Level) {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	mu.Lock()
	base = slog.New(handler).With(slog.String("app", "partner"))
	mu.Unlock()
}

// For returns a logger tagged with the given component name.
func For(component string) *slog.Logger {
	return Logger().With(slog.String("component", component))
}

// Logger returns the shared logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}
