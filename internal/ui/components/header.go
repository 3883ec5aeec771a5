// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragchat/internal/ui/styles"
	"github.com/jeranaias/ragchat/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the single-line title bar.
type Header struct {
	Title   string // Localized assistant title
	IndexID string // Knowledge index questions go to
	BaseURL string // Answer service base URL
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "ragchat",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetTarget records where questions are sent.
func (h *Header) SetTarget(baseURL, indexID string) {
	h.BaseURL = baseURL
	h.IndexID = indexID
}

// View renders the title with the index and service host on the far side.
func (h *Header) View() string {
	theme := h.theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	title := theme.HeaderTitle.Render(h.Title)

	var meta []string
	if h.IndexID != "" {
		meta = append(meta, h.IndexID)
	}
	if host := hostOf(h.BaseURL); host != "" {
		meta = append(meta, host)
	}
	metaText := theme.HeaderMeta.Render(strings.Join(meta, " @ "))

	inner := max(h.Width-theme.Header.GetHorizontalFrameSize(), 0)
	gap := inner - lipgloss.Width(title) - lipgloss.Width(metaText)
	if gap < 1 {
		// Narrow terminal: drop the metadata before the title.
		return theme.Header.Width(h.Width).Render(util.TruncateWidth(h.Title, inner))
	}
	return theme.Header.Width(h.Width).Render(title + strings.Repeat(" ", gap) + metaText)
}

// hostOf returns host[:port] of a URL, or the input when it does not parse.
func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
