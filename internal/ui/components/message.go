// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragchat/internal/locale"
	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/ui/styles"
	"github.com/jeranaias/ragchat/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// minBubbleWidth keeps bubbles readable on very narrow terminals.
const minBubbleWidth = 12

// MessageBubble renders one transcript entry.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	RTL           bool

	you   string
	bot   string
	theme *styles.Theme
}

// NewMessageBubble creates a bubble labelled from the locale table.
func NewMessageBubble(msg model.Message, strs locale.Table, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message: msg,
		Width:   80,
		RTL:     strs.RTL(),
		you:     strs.You,
		bot:     strs.Bot,
		theme:   theme,
	}
}

// SetWidth sets the full row width the bubble is placed in.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// SetShowTimestamp toggles the HH:MM label.
func (b *MessageBubble) SetShowTimestamp(show bool) {
	b.ShowTimestamp = show
}

// View renders the labelled bubble placed on its side of the row.
// Left-to-right locales put the user on the right; right-to-left
// locales mirror that.
func (b *MessageBubble) View() string {
	theme := b.theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	bubbleStyle := theme.BotBubble
	label := b.bot
	if b.Message.IsUser() {
		bubbleStyle = theme.UserBubble
		label = b.you
	}

	// Answers come from the network; nothing reaches the terminal unsanitized.
	content := util.SanitizeText(b.Message.Text)
	if strings.TrimSpace(content) == "" {
		content = " "
	}

	maxWidth := b.maxContentWidth()
	wrapped := wordWrap(content, maxWidth)
	contentWidth := maxLineWidth(wrapped)

	textAlign := lipgloss.Left
	if b.RTL {
		textAlign = lipgloss.Right
	}
	bubble := bubbleStyle.
		Width(contentWidth + bubbleStyle.GetHorizontalPadding()).
		Align(textAlign).
		Render(wrapped)

	header := theme.Label.Render(util.SanitizeText(label))
	if b.ShowTimestamp {
		if ts := b.Message.FormattedTime(); ts != "" {
			header += " " + theme.Timestamp.Render(ts)
		}
	}

	side := b.side()
	block := lipgloss.JoinVertical(side, header, bubble)
	return lipgloss.PlaceHorizontal(max(b.Width, lipgloss.Width(block)), side, block)
}

// side is the horizontal edge the bubble hugs.
func (b *MessageBubble) side() lipgloss.Position {
	userRight := !b.RTL
	if b.Message.IsUser() == userRight {
		return lipgloss.Right
	}
	return lipgloss.Left
}

// maxContentWidth is the widest wrapped line allowed inside the bubble.
func (b *MessageBubble) maxContentWidth() int {
	limit := b.Width * 3 / 4
	if b.theme != nil && b.theme.Width > 0 {
		limit = min(limit, b.theme.BubbleWidth())
	}
	// border (2) + padding (4)
	limit -= 6
	return max(limit, minBubbleWidth)
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// wordWrap wraps text to fit within width display columns. Words wider than
// the limit are broken by display width so wide scripts never overflow.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for lineIdx, line := range lines {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := ""
		for _, word := range words {
			for util.StringWidth(word) > width {
				if currentLine != "" {
					result.WriteString(currentLine)
					result.WriteString("\n")
					currentLine = ""
				}
				head, rest := splitAtWidth(word, width)
				result.WriteString(head)
				result.WriteString("\n")
				word = rest
			}
			switch {
			case currentLine == "":
				currentLine = word
			case util.StringWidth(currentLine)+1+util.StringWidth(word) <= width:
				currentLine += " " + word
			default:
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}

		result.WriteString(currentLine)
	}

	return result.String()
}

// splitAtWidth cuts s after the last rune that still fits in width columns.
func splitAtWidth(s string, width int) (string, string) {
	w := 0
	for i, r := range s {
		rw := util.StringWidth(string(r))
		if w+rw > width {
			if i == 0 {
				// A single rune wider than the limit still has to go somewhere.
				_, size := utf8.DecodeRuneInString(s)
				return s[:size], s[size:]
			}
			return s[:i], s[i:]
		}
		w += rw
	}
	return s, ""
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		maxWidth = max(maxWidth, util.StringWidth(line))
	}
	return maxWidth
}
