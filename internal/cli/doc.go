// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses the command line and formats startup output.
//
// The program has a single interactive mode; the remaining commands print
// information and exit before the TUI starts.
package cli
