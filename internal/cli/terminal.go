// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when the chat is started without a TTY.
var ErrNotTerminal = errors.New("partner needs an interactive terminal")

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RequireTerminal fails unless both stdin and stdout are terminals.
func RequireTerminal() error {
	if IsTTY() && IsStdoutTTY() {
		return nil
	}
	return &CommandError{
		Code:    ExitUsageError,
		Message: ErrNotTerminal.Error(),
		Hint:    "Run partner directly in a terminal, not through a pipe.",
	}
}

// ConfigureColor disables colored output for pipes and NO_COLOR.
func ConfigureColor() {
	if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stderr.Fd())) {
		color.NoColor = true
	}
}
