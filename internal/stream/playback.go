// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"strings"
)

// Separator joins revealed words.
const Separator = " "

// Tokenize splits text into the words revealed one per frame. Words are
// separated by single spaces, so a run of spaces yields empty words and
// newlines stay inside their word. Joining the result with Separator gives
// back text exactly. Empty text has no words.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, Separator)
}

// Frame is one reveal step for the target message.
type Frame struct {
	MessageID string
	Content   string
	Streaming bool // true for every frame except the last
	Done      bool // no more frames follow
}

// Playback reveals a final reply word by word. It is not safe for concurrent
// use.
type Playback struct {
	id     string
	tokens []string
	next   int
	buf    strings.Builder
	done   bool
}

// NewPlayback prepares a playback of final into the message with the given id.
func NewPlayback(id, final string) *Playback {
	return &Playback{
		id:     id,
		tokens: Tokenize(final),
	}
}

// MessageID returns the target message.
func (p *Playback) MessageID() string {
	return p.id
}

// Len returns the number of words.
func (p *Playback) Len() int {
	return len(p.tokens)
}

// Revealed returns how many words have been revealed.
func (p *Playback) Revealed() int {
	return p.next
}

// Done reports whether the final frame has been produced.
func (p *Playback) Done() bool {
	return p.done
}

// Next reveals one more word. With no words it returns a single settled,
// empty frame. After the final frame it keeps returning the final frame.
func (p *Playback) Next() Frame {
	if p.done || p.next >= len(p.tokens) {
		p.done = true
		return Frame{MessageID: p.id, Content: p.buf.String(), Done: true}
	}

	if p.next > 0 {
		p.buf.WriteString(Separator)
	}
	p.buf.WriteString(p.tokens[p.next])
	p.next++

	last := p.next == len(p.tokens)
	p.done = last
	return Frame{
		MessageID: p.id,
		Content:   p.buf.String(),
		Streaming: !last,
		Done:      last,
	}
}
