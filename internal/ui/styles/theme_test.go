// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestResolveDark(t *testing.T) {
	detectDark := func() bool { return true }
	detectLight := func() bool { return false }

	tests := []struct {
		mode   string
		detect func() bool
		want   bool
	}{
		{"dark", detectLight, true},
		{"DARK", detectLight, true},
		{"light", detectDark, false},
		{"auto", detectDark, true},
		{"auto", detectLight, false},
		{"", detectDark, true},
		{"sepia", detectLight, false},
	}

	for _, tc := range tests {
		if got := resolveDark(tc.mode, tc.detect); got != tc.want {
			t.Errorf("resolveDark(%q) = %v, want %v", tc.mode, got, tc.want)
		}
	}
}

func TestNewTheme_ExplicitMode(t *testing.T) {
	if !NewTheme(ModeDark).IsDark {
		t.Error("dark mode should set IsDark")
	}
	if NewTheme(ModeLight).IsDark {
		t.Error("light mode should clear IsDark")
	}
}

func TestTheme_StylesRender(t *testing.T) {
	theme := NewTheme(ModeDark)
	for name, rendered := range map[string]string{
		"UserBubble": theme.UserBubble.Render("hello"),
		"BotBubble":  theme.BotBubble.Render("hello"),
		"Footer":     theme.Footer.Render("hello"),
		"FormBox":    theme.FormBox.Render("hello"),
		"WelcomeBox": theme.WelcomeBox.Render("hello"),
	} {
		if !strings.Contains(rendered, "hello") {
			t.Errorf("%s lost its content: %q", name, rendered)
		}
	}
}

func TestTheme_LayoutMode(t *testing.T) {
	tests := []struct {
		width int
		mode  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}

	theme := NewTheme(ModeDark)
	for _, tc := range tests {
		theme.SetSize(tc.width, 40)
		if got := theme.GetLayoutMode(); got != tc.mode {
			t.Errorf("width %d: mode = %v, want %v", tc.width, got, tc.mode)
		}
		if bw := theme.BubbleWidth(); bw <= 0 || bw > tc.width {
			t.Errorf("width %d: BubbleWidth = %d", tc.width, bw)
		}
	}
}

func TestRenderStatusHelpers(t *testing.T) {
	if !strings.Contains(RenderError("bad"), "[X] bad") {
		t.Error("RenderError should include the indicator")
	}
	if !strings.Contains(RenderSuccess("ok"), "[OK] ok") {
		t.Error("RenderSuccess should include the indicator")
	}
}
