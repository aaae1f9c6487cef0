// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// =============================================================================
// TURN MESSAGES
// =============================================================================

// ReplyMsg carries the outcome of a reply fetch.
type ReplyMsg struct {
	Gen  uint64
	Text string
	Err  error
}

// RevealMsg asks the view to reveal the next word of the playing reply.
type RevealMsg struct {
	Gen uint64
}

// =============================================================================
// CLIPBOARD MESSAGES
// =============================================================================

// CopyExpiredMsg ends the copied state of a message.
type CopyExpiredMsg struct {
	Gen       uint64
	MessageID string
	Seq       uint64
}
