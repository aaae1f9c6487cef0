// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/model"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/reply"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/stream"
)

var errNoFetcher = errors.New("no reply endpoint configured")

// =============================================================================
// SUBMISSION
// =============================================================================

// Submit starts a turn with the trimmed text. It is a no-op returning nil
// for blank text or while the view is busy or closed.
func (m *Model) Submit(text string) tea.Cmd {
	trimmed := strings.TrimSpace(text)
	if m.closed || trimmed == "" || !m.turn.CanSubmit() {
		return nil
	}

	m.conv.AppendUser(trimmed)
	m.turn = model.TurnAwaitingReply
	m.input.Reset()
	m.input.Blur()
	m.resizeInput()
	m.refresh(true)

	return tea.Batch(m.fetchCmd(trimmed), m.spinner.Tick)
}

func (m *Model) fetchCmd(text string) tea.Cmd {
	gen := m.gen
	fetcher := m.fetcher
	ctx := m.cancelMgr.start(m.parent)

	return func() tea.Msg {
		if fetcher == nil {
			return ReplyMsg{Gen: gen, Err: errNoFetcher}
		}
		out, err := fetcher.Fetch(ctx, text)
		return ReplyMsg{Gen: gen, Text: out, Err: err}
	}
}

// =============================================================================
// REPLY AND PLAYBACK
// =============================================================================

func (m *Model) handleReply(msg ReplyMsg) tea.Cmd {
	if !m.live(msg.Gen) || m.turn != model.TurnAwaitingReply {
		m.log.Debug("stream_discarded", "reason", "stale_reply", "gen", msg.Gen)
		return nil
	}
	m.cancelMgr.clear()

	if msg.Err != nil {
		attrs := []any{"error", msg.Err.Error()}
		var fe *reply.FetchError
		switch {
		case reply.IsHTTPStatus(msg.Err) && errors.As(msg.Err, &fe):
			attrs = append(attrs, "kind", fe.Kind.String(), "status", fe.Status)
		case reply.IsNetwork(msg.Err):
			attrs = append(attrs, "kind", reply.ErrKindNetwork.String())
		}
		m.log.Warn("reply_failed", attrs...)

		m.conv.AppendBot(ErrorReply, false)
		return m.finishTurn()
	}

	bot := m.conv.AppendBot("", true)
	m.playback = stream.NewPlayback(bot.ID, msg.Text)
	m.turn = model.TurnStreaming
	m.log.Info("stream_started", "message_id", bot.ID, "words", m.playback.Len())
	m.refresh(true)

	// The first word shows as soon as the reply lands; the delay only
	// separates words.
	return m.reveal()
}

func (m *Model) revealCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.delay(), func(time.Time) tea.Msg {
		return RevealMsg{Gen: gen}
	})
}

func (m *Model) handleReveal(msg RevealMsg) tea.Cmd {
	if !m.live(msg.Gen) || m.playback == nil {
		m.log.Debug("stream_discarded", "reason", "stale_reveal", "gen", msg.Gen)
		return nil
	}
	return m.reveal()
}

// reveal applies the next playback frame and schedules the one after it.
func (m *Model) reveal() tea.Cmd {
	f := m.playback.Next()
	m.conv.Update(f.MessageID, f.Content, f.Streaming)
	if f.Done {
		m.playback = nil
		return m.finishTurn()
	}
	m.refresh(false)
	return m.revealCmd()
}

func (m *Model) finishTurn() tea.Cmd {
	m.turn = model.TurnIdle
	m.refresh(true)
	return m.input.Focus()
}

// =============================================================================
// COPY
// =============================================================================

// CopyMessage copies a settled message to the clipboard. The returned
// command ends the copied state after the window. Anything that cannot be
// copied returns nil; clipboard failures are only logged.
func (m *Model) CopyMessage(id string) tea.Cmd {
	if m.closed {
		return nil
	}
	msg, ok := m.conv.Get(id)
	if !ok || msg.Streaming || msg.IsEmpty() {
		return nil
	}
	seq, err := m.tracker.Copy(id, msg.Content)
	if err != nil {
		return nil
	}
	m.refresh(false)

	gen := m.gen
	return tea.Tick(m.copyWindow, func(time.Time) tea.Msg {
		return CopyExpiredMsg{Gen: gen, MessageID: id, Seq: seq}
	})
}

// CopyLast copies the most recent settled bot message.
func (m *Model) CopyLast() tea.Cmd {
	msg, ok := m.conv.LastSettledBot()
	if !ok {
		return nil
	}
	return m.CopyMessage(msg.ID)
}
