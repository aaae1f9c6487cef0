// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Turn tracks the single outstanding turn of a conversation. Only TurnIdle
// accepts a new submission.
type Turn int

const (
	TurnIdle          Turn = iota // Ready for input
	TurnAwaitingReply             // Request sent, no reply yet
	TurnStreaming                 // Reply is being revealed
)

// String returns the turn state name.
func (t Turn) String() string {
	switch t {
	case TurnIdle:
		return "idle"
	case TurnAwaitingReply:
		return "awaiting_reply"
	case TurnStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// CanSubmit reports whether a new user message may start a turn.
func (t Turn) CanSubmit() bool {
	return t == TurnIdle
}

// Busy reports whether a reply is in flight or being revealed.
func (t Turn) Busy() bool {
	return t == TurnAwaitingReply || t == TurnStreaming
}
