// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragchat/internal/ui/styles"
	"github.com/jeranaias/ragchat/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// NoticeKind colors the transient notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// KeyHint is one "key action" pair shown in the status bar.
type KeyHint struct {
	Key    string
	Action string
}

// StatusBar shows key hints, the pending-request count and a notice.
type StatusBar struct {
	Width   int
	Hints   []KeyHint
	Pending int

	notice     string
	noticeKind NoticeKind
	theme      *styles.Theme
}

// NewStatusBar creates a status bar with the given hints.
func NewStatusBar(theme *styles.Theme, hints ...KeyHint) *StatusBar {
	return &StatusBar{
		Width: 80,
		Hints: hints,
		theme: theme,
	}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetNotice shows msg until the next SetNotice or ClearNotice.
func (s *StatusBar) SetNotice(msg string, kind NoticeKind) {
	s.notice = msg
	s.noticeKind = kind
}

// ClearNotice removes the notice.
func (s *StatusBar) ClearNotice() {
	s.notice = ""
}

// Notice returns the current notice text.
func (s *StatusBar) Notice() string {
	return s.notice
}

// View renders the bar. The notice wins over hints when space is short.
func (s *StatusBar) View() string {
	theme := s.theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	var left string
	if s.notice != "" {
		style := theme.StatusNotice
		if s.noticeKind == NoticeError {
			style = theme.StatusError
		}
		left = style.Render(util.SanitizeText(s.notice))
	} else {
		parts := make([]string, 0, len(s.Hints))
		for _, h := range s.Hints {
			parts = append(parts, theme.StatusKey.Render(h.Key)+" "+h.Action)
		}
		left = strings.Join(parts, "  ")
	}

	right := ""
	if s.Pending > 0 {
		right = theme.TypingDots.Render("... " + strconv.Itoa(s.Pending))
	}

	inner := max(s.Width-theme.StatusBar.GetHorizontalFrameSize(), 0)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return theme.StatusBar.Width(s.Width).MaxHeight(1).Render(left)
	}
	return theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}
