// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitStorageError indicates the user database could not be opened
	ExitStorageError = 4
)

// CommandError carries an exit code alongside the message shown to the user.
type CommandError struct {
	Code    int
	Message string
	Hint    string
	Cause   error
}

func (e *CommandError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}

// UsageError reports invalid arguments.
func UsageError(msg string) error {
	return &CommandError{Code: ExitUsageError, Message: msg, Hint: "Run 'partner help' for usage."}
}

// ConfigError reports an unreadable or invalid configuration.
func ConfigError(cause error) error {
	return &CommandError{Code: ExitConfigError, Message: "could not load configuration", Cause: cause}
}

// StorageError reports a failure opening the user database.
func StorageError(cause error) error {
	return &CommandError{Code: ExitStorageError, Message: "could not open user database", Cause: cause}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ExitGeneralError
}

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	hintLabel  = color.New(color.FgCyan)
)

// PrintError writes err, and its hint if any, to w.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorLabel.Sprint("Error:"), err)
	var ce *CommandError
	if errors.As(err, &ce) && ce.Hint != "" {
		fmt.Fprintf(w, "%s\n", hintLabel.Sprint(ce.Hint))
	}
}
