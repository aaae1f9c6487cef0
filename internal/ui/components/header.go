// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the UI pieces shared by the partner views.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/styles"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// compactWidth is the width below which the header drops the key hint.
const compactWidth = 60

// Header is the title bar shown above every view.
type Header struct {
	Title    string // Assistant name
	Username string // Signed-in username, empty when signed out
	Hint     string // Key hint on the right, e.g. "ctrl+o sign out"
	Width    int    // Available width
	theme    *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme, title string) *Header {
	return &Header{
		Title: title,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetUser sets the username greeted on the right; "" hides the greeting
// and the hint.
func (h *Header) SetUser(username, hint string) {
	h.Username = username
	h.Hint = hint
}

// Greeting returns "Welcome, <Name>" or "" without a username.
func (h *Header) Greeting() string {
	if h.Username == "" {
		return ""
	}
	return "Welcome, " + util.Capitalize(h.Username)
}

// Height returns the rendered height in lines.
func (h *Header) Height() int {
	return lipgloss.Height(h.View())
}

// View renders the header.
func (h *Header) View() string {
	if h.Width < compactWidth {
		return h.ViewCompact()
	}

	title := h.theme.HeaderTitle.Render(h.Title)
	var right string
	if greeting := h.Greeting(); greeting != "" {
		right = h.theme.HeaderUser.Render(util.TruncateWidth(greeting, h.Width/2))
		if h.Hint != "" {
			right += "  " + h.theme.HeaderHint.Render(h.Hint)
		}
	}

	gap := max(h.Width-lipgloss.Width(title)-lipgloss.Width(right)-2, 1)
	line := title + lipgloss.NewStyle().Width(gap).Render("") + right
	return h.theme.Header.Width(h.Width).Render(line)
}

// ViewCompact renders the title and greeting only, truncated to fit.
func (h *Header) ViewCompact() string {
	line := h.Title
	if greeting := h.Greeting(); greeting != "" {
		line += " | " + greeting
	}
	line = util.TruncateWidth(line, max(h.Width-2, 10))
	return h.theme.Header.Width(max(h.Width, 10)).Render(h.theme.HeaderTitle.Render(line))
}
