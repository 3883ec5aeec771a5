// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragchat/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// RenderMarkdown renders markdown for the terminal. dark selects glamour's
// dark or light standard style. The raw text is returned if rendering fails.
func RenderMarkdown(content string, width int, dark bool) string {
	style := "light"
	if dark {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// HELP PANEL
// =============================================================================

// HelpPanel shows the locale's help text as an overlay.
type HelpPanel struct {
	markdown string
	width    int
	rendered string
	theme    *styles.Theme
}

// NewHelpPanel creates a panel for the given markdown.
func NewHelpPanel(markdown string, theme *styles.Theme) *HelpPanel {
	return &HelpPanel{
		markdown: markdown,
		width:    60,
		theme:    theme,
	}
}

// SetContent replaces the markdown, e.g. after a locale change.
func (h *HelpPanel) SetContent(markdown string) {
	if markdown == h.markdown {
		return
	}
	h.markdown = markdown
	h.rendered = ""
}

// SetWidth sets the outer width of the panel.
func (h *HelpPanel) SetWidth(width int) {
	if width == h.width {
		return
	}
	h.width = width
	h.rendered = ""
}

// View renders the panel. Glamour output is cached until content or width
// changes.
func (h *HelpPanel) View() string {
	if h.rendered == "" {
		dark := true
		if h.theme != nil {
			dark = h.theme.IsDark
		}
		// Leave room for the border and padding.
		h.rendered = RenderMarkdown(h.markdown, max(h.width-4, 20), dark)
	}

	box := lipgloss.NewStyle()
	if h.theme != nil {
		box = h.theme.HelpBox
	}
	return box.Render(h.rendered)
}
