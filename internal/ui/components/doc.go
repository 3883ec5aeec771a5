// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the ragchat TUI.

# Components

  - MessageBubble: one transcript entry, user or bot, with optional timestamp.
    Right-to-left locales mirror the layout and right-align the text.
  - TypingIndicator: three animated dots shown once per pending request.
  - HelpPanel: the locale's help markdown rendered with glamour.
  - Header: title line with the target index and service host.
  - StatusBar: key hints plus a transient notice (copied, config reloaded).

All text that originated outside the process is passed through
util.SanitizeText before it is styled.

# Usage

	bubble := components.NewMessageBubble(msg, strings, theme)
	bubble.SetWidth(width)
	view := bubble.View()
*/
package components
