// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragchat/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingFrames are the dot frames cycled while a request is pending.
var TypingFrames = []string{".  ", ".. ", "...", " ..", "  .", "   "}

// TypingIndicator animates the "bot is typing" dots. One indicator drives
// every pending marker; the chat view renders a line per marker.
type TypingIndicator struct {
	spinner spinner.Model
	label   string
	active  bool
	theme   *styles.Theme
}

// NewTypingIndicator creates an inactive indicator with the given label.
func NewTypingIndicator(label string, theme *styles.Theme) TypingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: TypingFrames,
		FPS:    time.Second / 6,
	}
	return TypingIndicator{
		spinner: s,
		label:   label,
		theme:   theme,
	}
}

// SetLabel changes the text shown before the dots.
func (t *TypingIndicator) SetLabel(label string) {
	t.label = label
}

// Label returns the text shown before the dots.
func (t TypingIndicator) Label() string {
	return t.label
}

// Start activates the animation. Starting an active indicator returns nil
// so only one tick loop ever runs.
func (t *TypingIndicator) Start() tea.Cmd {
	if t.active {
		return nil
	}
	t.active = true
	return t.spinner.Tick
}

// Stop deactivates the animation. The pending tick is dropped in Update.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// IsActive reports whether the animation is running.
func (t TypingIndicator) IsActive() bool {
	return t.active
}

// Update advances the animation on spinner ticks.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders one marker line: label followed by the current dot frame.
func (t TypingIndicator) View() string {
	frame := TypingFrames[2]
	if t.active {
		frame = t.spinner.View()
	}

	labelStyle := lipgloss.NewStyle()
	dotsStyle := lipgloss.NewStyle()
	if t.theme != nil {
		labelStyle = t.theme.Typing
		dotsStyle = t.theme.TypingDots
	}

	if t.label == "" {
		return dotsStyle.Render(frame)
	}
	return labelStyle.Render(t.label) + " " + dotsStyle.Render(frame)
}
