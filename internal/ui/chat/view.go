// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragchat/internal/ui/components"
)

// View renders the chat.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := m.header.View()
	input := m.theme.InputContainer.Width(m.width).Render(m.input.View())
	status := m.status.View()

	body := m.viewport.View()
	if m.showHelp {
		body = lipgloss.Place(m.viewport.Width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center, m.help.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, status)
}

// renderTranscript renders every message followed by one typing line per
// outstanding marker.
func (m Model) renderTranscript() string {
	strs := m.session.Strings()
	width := max(m.viewport.Width, 1)

	var blocks []string
	for _, msg := range m.sink.transcript.Messages() {
		b := components.NewMessageBubble(msg, strs, m.theme)
		b.SetWidth(width)
		b.SetShowTimestamp(m.showTimestamps)
		blocks = append(blocks, b.View())
	}

	// The bot side: left for left-to-right locales, right otherwise.
	side := lipgloss.Left
	if strs.RTL() {
		side = lipgloss.Right
	}
	for range m.sink.transcript.Markers() {
		blocks = append(blocks, lipgloss.PlaceHorizontal(width, side, m.typing.View()))
	}

	return strings.Join(blocks, "\n")
}
