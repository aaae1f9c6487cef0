// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat conversation.
//
// # Key Types
//
//   - Message: one chat message with role, content, timestamp and streaming flag
//   - Conversation: append-only ordered log of messages (the message store)
//   - Turn: the single in-flight turn guard (idle, awaiting reply, streaming)
//   - Role: message sender (user or bot)
//
// # Usage
//
//	conv := model.NewConversation()
//	user := conv.AppendUser("hello")
//	bot := conv.AppendBot("", true)
//	conv.Update(bot.ID, "Hi", true)
//	conv.Update(bot.ID, "Hi there!", false)
//
// Messages are never removed or reordered. Content is only changed through
// Conversation.Update, which the typing-effect player drives.
package model
