// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/logging"
	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/session"
	"github.com/jeranaias/ragchat/internal/ui/components"
	"github.com/jeranaias/ragchat/internal/ui/styles"
)

// maxInputRunes bounds a single question.
const maxInputRunes = 4000

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the chat model.
type Options struct {
	// Answerer performs the round-trip. Required.
	Answerer session.Answerer
	// Config supplies locale, index, policy and display settings.
	// config.Default() is used when nil.
	Config *config.Config
	// Theme defaults to one built from Config.UI.Theme.
	Theme *styles.Theme
	// Context bounds every fetch. Defaults to context.Background().
	Context context.Context
	// Copy writes to the clipboard. Defaults to atotto/clipboard.
	Copy func(string) error
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme *styles.Theme
	keys  KeyMap

	// Dimensions
	width  int
	height int

	// Conversation
	sink    *viewSink
	session *session.Session

	// Sub-components
	input    textinput.Model
	viewport viewport.Model
	typing   components.TypingIndicator
	header   *components.Header
	status   *components.StatusBar
	help     *components.HelpPanel

	// UI state
	showHelp       bool
	showTimestamps bool
	noticeSeq      int

	ctx    context.Context
	copy   func(string) error
	logger zerolog.Logger
}

// New creates the chat model. It returns an error only when the config
// carries an invalid stale policy.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewThemeForMode(cfg.UI.Theme)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	sessOpts, err := session.OptionsFromConfig(cfg)
	if err != nil {
		return Model{}, err
	}
	logger := logging.Component("tui")
	sessOpts.Logger = &logger

	sink := newViewSink()
	sess := session.New(sink, opts.Answerer, sessOpts)
	strs := sess.Strings()

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = strs.Placeholder
	input.CharLimit = maxInputRunes
	input.PromptStyle = theme.InputPrompt
	input.TextStyle = theme.InputText
	input.PlaceholderStyle = theme.InputPlaceholder
	input.Focus()

	keys := DefaultKeyMap()

	header := components.NewHeader(theme)
	header.Title = strs.Title
	header.SetTarget(cfg.Server.BaseURL, sess.IndexID())

	vp := viewport.New(80, 20)
	// PgUp/PgDn are handled by the chat key map; every other key belongs to
	// the input field.
	vp.KeyMap = viewport.KeyMap{}

	return Model{
		theme:          theme,
		keys:           keys,
		sink:           sink,
		session:        sess,
		input:          input,
		viewport:       vp,
		typing:         components.NewTypingIndicator(strs.Typing, theme),
		header:         header,
		status:         components.NewStatusBar(theme, keys.StatusHints()...),
		help:           components.NewHelpPanel(strs.Help, theme),
		showTimestamps: cfg.UI.ShowTimestamps,
		ctx:            ctx,
		copy:           copyFn,
		logger:         logger,
	}, nil
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Transcript exposes the conversation, mainly for tests and exports.
func (m Model) Transcript() *model.Transcript {
	return m.sink.transcript
}

// Session returns the interaction controller.
func (m Model) Session() *session.Session {
	return m.session
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// ShowingHelp reports whether the help overlay is open.
func (m Model) ShowingHelp() bool {
	return m.showHelp
}

// Notice returns the status bar notice, if any.
func (m Model) Notice() string {
	return m.status.Notice()
}
