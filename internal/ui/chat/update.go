// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/session"
	"github.com/jeranaias/ragchat/internal/ui/components"
)

// noticeTTL is how long a status notice stays up.
const noticeTTL = 3 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case answerMsg:
		return m.handleAnswer(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case clearNoticeMsg:
		if msg.id == m.noticeSeq {
			m.status.ClearNotice()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		if m.typing.IsActive() {
			m.refreshViewport(false)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(m.width, m.height)

	// Layout: header (1) + viewport + input (border + line = 2) + status (1)
	const (
		headerHeight    = 1
		inputAreaHeight = 2
		statusBarHeight = 1
	)
	m.viewport.Width = max(m.width, 1)
	m.viewport.Height = max(m.height-headerHeight-inputAreaHeight-statusBarHeight, 1)

	// InputContainer pads by one on each side; the prompt is two cells.
	m.input.Width = max(m.width-4-len(m.input.Prompt), 10)

	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.help.SetWidth(min(m.width-4, 80))

	m.refreshViewport(true)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.showHelp && msg.Type == tea.KeyEsc {
			m.showHelp = false
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case m.showHelp:
		// Any other key closes the overlay and is otherwise ignored.
		m.showHelp = false
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m.copyLastAnswer()

	case key.Matches(msg, m.keys.Clear):
		m.sink.transcript.Clear()
		m.typing.Stop()
		m.status.Pending = 0
		m.refreshViewport(true)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit echoes the question, clears the input and dispatches the fetch.
// Blank input leaves everything untouched.
func (m Model) submit() (tea.Model, tea.Cmd) {
	p, ok := m.session.Submit(m.input.Value())
	if !ok {
		return m, nil
	}
	m.input.Reset()

	syncCmd := m.syncSink()
	return m, tea.Batch(syncCmd, m.fetchCmd(p))
}

// fetchCmd runs the round-trip off the update loop.
func (m Model) fetchCmd(p *session.Pending) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		return answerMsg{pending: p, result: sess.Fetch(ctx, p)}
	}
}

func (m Model) handleAnswer(msg answerMsg) (tea.Model, tea.Cmd) {
	outcome := m.session.Resolve(msg.pending, msg.result)
	m.logger.Debug().
		Str("request_id", msg.pending.Token.ID).
		Str("outcome", outcome.String()).
		Dur("elapsed", msg.result.Elapsed).
		Msg("answer resolved")
	return m, m.syncSink()
}

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn().Err(msg.Err).Msg("config reload failed, keeping current settings")
		return m, m.notify("config: "+msg.Err.Error(), components.NoticeError)
	}
	if msg.Config == nil {
		return m, nil
	}

	opts, err := session.OptionsFromConfig(msg.Config)
	if err != nil {
		return m, m.notify("config: "+err.Error(), components.NoticeError)
	}
	m.session.Update(opts)

	strs := m.session.Strings()
	m.input.Placeholder = strs.Placeholder
	m.typing.SetLabel(strs.Typing)
	m.help.SetContent(strs.Help)
	m.header.Title = strs.Title
	m.header.SetTarget(msg.Config.Server.BaseURL, m.session.IndexID())
	m.showTimestamps = msg.Config.UI.ShowTimestamps
	m.refreshViewport(false)

	m.logger.Info().
		Str("locale", strs.Tag.String()).
		Str("stale_policy", opts.Policy.String()).
		Str("index_id", m.session.IndexID()).
		Msg("config reloaded")
	return m, m.notify("config reloaded", components.NoticeInfo)
}

func (m Model) copyLastAnswer() (tea.Model, tea.Cmd) {
	last, ok := m.sink.transcript.LastFrom(model.SenderBot)
	if !ok || last.Text == "" {
		return m, m.notify("nothing to copy", components.NoticeInfo)
	}
	if err := m.copy(last.Text); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard write failed")
		return m, m.notify("copy failed: "+err.Error(), components.NoticeError)
	}
	return m, m.notify(fmt.Sprintf("copied %d chars", len([]rune(last.Text))), components.NoticeInfo)
}

// =============================================================================
// HELPERS
// =============================================================================

// syncSink applies what the session asked of the sink: redraw, scroll,
// and starting or stopping the typing animation.
func (m *Model) syncSink() tea.Cmd {
	dirty, scroll := m.sink.take()
	pending := m.sink.transcript.MarkerCount()
	m.status.Pending = pending

	var cmd tea.Cmd
	if pending > 0 {
		cmd = m.typing.Start()
	} else {
		m.typing.Stop()
	}

	if dirty || scroll {
		m.refreshViewport(scroll)
	}
	return cmd
}

// notify shows a status notice and schedules its expiry.
func (m *Model) notify(text string, kind components.NoticeKind) tea.Cmd {
	m.noticeSeq++
	id := m.noticeSeq
	m.status.SetNotice(text, kind)
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport(gotoBottom bool) {
	m.viewport.SetContent(m.renderTranscript())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}
