// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer formats settled bot replies for the terminal.
type Renderer interface {
	Render(markdown string) (string, error)
}

// RendererFactory builds a renderer for a wrap width and background.
type RendererFactory func(width int, dark bool) Renderer

// GlamourRenderer renders markdown with glamour. A renderer that fails to
// build degrades to plain text.
func GlamourRenderer(width int, dark bool) Renderer {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return PlainRenderer(width, dark)
	}
	return r
}

// PlainRenderer returns text unchanged.
func PlainRenderer(int, bool) Renderer {
	return plainRenderer{}
}

type plainRenderer struct{}

func (plainRenderer) Render(s string) (string, error) {
	return s, nil
}

// renderMarkdown renders a settled message once and caches the result until
// the next resize.
func (m *Model) renderMarkdown(id, content string) string {
	if out, ok := m.rendered[id]; ok {
		return out
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		m.log.Debug("markdown_fallback", "message_id", id, "error", err.Error())
		out = content
	}
	out = strings.Trim(out, "\n")
	m.rendered[id] = out
	return out
}
