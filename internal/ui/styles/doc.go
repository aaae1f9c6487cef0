// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the partner TUI.

All colors are Lip Gloss AdaptiveColor values, so the same palette works on
light and dark terminals.

# Color System (colors.go)

  - Indigo - brand accent, header, bot bubble border
  - Sky - user highlights and key hints
  - Emerald - the "Copied!" badge
  - Rose - form errors

# Theme System (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme) // "dark", "light" or "auto"
	bubble := theme.UserBubble.Render(text)

"auto" asks termenv whether the background is dark. An explicit mode
overrides the detection for every adaptive color.
*/
package styles
