// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/model"
)

// View implements tea.Model.
func (m *Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.renderInput(),
		m.renderFooter(),
	)
}

// refresh re-renders the conversation into the viewport. With follow set, or
// when the user was already at the bottom, it scrolls to the newest message.
func (m *Model) refresh(follow bool) {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if follow || atBottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

func (m *Model) renderMessages() string {
	if m.conv.IsEmpty() {
		return m.renderWelcome()
	}
	msgs := m.conv.Messages()

	lastBot := ""
	if last, ok := m.conv.LastSettledBot(); ok {
		lastBot = last.ID
	}

	parts := make([]string, 0, len(msgs)+1)
	for _, msg := range msgs {
		switch msg.Role {
		case model.RoleUser:
			parts = append(parts, m.renderUserMessage(msg))
		default:
			parts = append(parts, m.renderBotMessage(msg, msg.ID == lastBot))
		}
	}
	if m.turn == model.TurnAwaitingReply {
		parts = append(parts, m.renderThinking())
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderUserMessage(msg model.Message) string {
	maxW := m.theme.BubbleWidth()
	style := m.theme.UserBubble
	if lipgloss.Width(msg.Content)+4 > maxW {
		style = style.Width(maxW)
	}

	label := m.theme.Timestamp.Render(msg.CreatedAt.Format("15:04")) + " " +
		m.theme.RoleLabel.Render(msg.Role.DisplayName())
	if m.tracker.IsCopied(msg.ID) {
		label = m.theme.Copied.Render("Copied!") + " " + label
	}

	block := lipgloss.JoinVertical(lipgloss.Right, label, style.Render(msg.Content))
	return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, block)
}

func (m *Model) renderBotMessage(msg model.Message, lastSettled bool) string {
	label := m.theme.RoleLabel.Render(m.assistant) + " " +
		m.theme.Timestamp.Render(msg.CreatedAt.Format("15:04"))
	switch {
	case m.tracker.IsCopied(msg.ID):
		label += "  " + m.theme.Copied.Render("Copied!")
	case lastSettled:
		label += "  " + m.theme.CopyHint.Render("ctrl+y to copy")
	}

	width := m.theme.BubbleWidth()
	var body string
	if msg.Streaming {
		body = lipgloss.NewStyle().Width(width - 4).Render(msg.Content)
	} else {
		body = m.renderMarkdown(msg.ID, msg.Content)
	}
	return label + "\n" + m.theme.BotBubble.MaxWidth(width).Render(body)
}

func (m *Model) renderThinking() string {
	return m.spinner.View() + " " + m.theme.ThinkingText.Render(m.assistant+" is thinking...")
}

func (m *Model) renderWelcome() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.WelcomeTitle.Render("Welcome to "+m.assistant),
		"",
		m.theme.WelcomeInfo.Render("Ask about your pipeline, prospects or next steps."),
		m.theme.WelcomeInfo.Render("Replies appear here as they are written."),
	)
	box := m.theme.WelcomeBox.Render(body)
	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// INPUT AND FOOTER
// =============================================================================

func (m *Model) renderInput() string {
	style := m.theme.InputContainer
	if !m.inputEnabled() {
		style = m.theme.InputDisabled
	}
	return style.Width(m.width - 2).Render(m.input.View())
}

func (m *Model) renderFooter() string {
	hints := make([]string, 0, 3)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, m.theme.FooterKey.Render(h.Key)+" "+h.Desc)
	}
	return m.theme.Footer.Render(strings.Join(hints, " • "))
}
