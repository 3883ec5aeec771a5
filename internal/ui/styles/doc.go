// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the ragchat TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. The ui.theme config key can force "dark" or "light".

# Color System (colors.go)

  - Cyan - Title and input prompt
  - Purple - Bot accents and the typing dots
  - Emerald, Amber, Rose - Success, notices and errors

Message bubbles use semantic tokens:

	UserBubbleBg / UserBubbleFg / UserBubbleBorder
	BotBubbleBg  / BotBubbleFg  / BotBubbleBorder

Status helpers (RenderSuccess, RenderError, ...) prefix an ASCII shape so
the meaning survives on monochrome terminals.

# Theme (theme.go)

Theme bundles the lipgloss styles used by the chat view and computes the
bubble width for narrow, medium and wide terminals.

	theme := styles.NewThemeForMode(cfg.UI.Theme)
	theme.SetSize(msg.Width, msg.Height)
	bubble := theme.UserBubble.Width(theme.BubbleWidth()).Render(text)
*/
package styles
