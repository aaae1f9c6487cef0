// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// The view owns one conversation for its lifetime. A turn runs as:
//
//  1. Submit appends the user message and starts the reply fetch (tea.Cmd).
//  2. ReplyMsg appends an empty streaming bot message, or a settled apology
//     when the fetch failed.
//  3. RevealMsg ticks reveal the reply one word at a time until it settles.
//
// Every message produced by a command carries the view generation it was
// started under. Close moves the view to a new generation, so anything still
// in flight is dropped when it arrives.
package chat
