// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered, append-only message log owned by one chat
// view. It is not safe for concurrent use; the chat view only touches it from
// the Bubble Tea update loop.
type Conversation struct {
	messages []*Message
	index    map[string]int
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{
		messages: make([]*Message, 0, 16),
		index:    make(map[string]int),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the end of the log. A message whose ID is already
// present is ignored and false is returned.
func (c *Conversation) Append(msg *Message) bool {
	if msg == nil {
		return false
	}
	if _, exists := c.index[msg.ID]; exists {
		return false
	}
	c.index[msg.ID] = len(c.messages)
	c.messages = append(c.messages, msg)
	return true
}

// AppendUser creates and appends a user message.
func (c *Conversation) AppendUser(content string) *Message {
	msg := NewUserMessage(content)
	c.Append(msg)
	return msg
}

// AppendBot creates and appends a bot message.
func (c *Conversation) AppendBot(content string, streaming bool) *Message {
	msg := NewBotMessage(content, streaming)
	c.Append(msg)
	return msg
}

// Update replaces the content and streaming flag of the bot message with the
// given ID. It returns false when the ID is unknown or names a user message;
// user content is immutable.
func (c *Conversation) Update(id, content string, streaming bool) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	msg := c.messages[i]
	if msg.Role != RoleBot {
		return false
	}
	msg.Content = content
	msg.Streaming = streaming
	return true
}

// Get returns a copy of the message with the given ID.
func (c *Conversation) Get(id string) (Message, bool) {
	i, ok := c.index[id]
	if !ok {
		return Message{}, false
	}
	return *c.messages[i], true
}

// Messages returns a snapshot of the log in order. Mutating the returned
// values does not affect the conversation.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	for i, msg := range c.messages {
		out[i] = *msg
	}
	return out
}

// Last returns a copy of the most recent message.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return *c.messages[len(c.messages)-1], true
}

// LastSettledBot returns the most recent bot message whose content is final.
func (c *Conversation) LastSettledBot() (Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if msg := c.messages[i]; msg.Role == RoleBot && !msg.Streaming {
			return *msg, true
		}
	}
	return Message{}, false
}

// StreamingCount returns how many messages are still streaming.
func (c *Conversation) StreamingCount() int {
	n := 0
	for _, msg := range c.messages {
		if msg.Streaming {
			n++
		}
	}
	return n
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

