// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/locale"
	"github.com/jeranaias/ragchat/internal/logging"
	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/session"
	"github.com/jeranaias/ragchat/internal/ui/components"
	"github.com/jeranaias/ragchat/internal/util"
)

// historyFileName lives in the config directory.
const historyFileName = "history"

// linePrompt is shown before every question in line mode.
const linePrompt = "> "

// lineCommands is appended to the locale help in line mode.
const lineCommands = `
Line mode commands:
  /help   show this help
  /clear  clear the screen and the transcript
  /quit   leave (also /exit, Ctrl+D)
`

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start a line-mode chat session",
		Long: `Start a line-mode chat session. Questions are read one line at a time and
each answer is printed before the next prompt. Works with piped input:

  printf 'who are you\n' | ragchat chat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineChat(cmd.Context(), a)
		},
	}
}

// =============================================================================
// REPL
// =============================================================================

func runLineChat(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := session.OptionsFromConfig(a.cfg)
	if err != nil {
		return err
	}
	logger := logging.Component("repl")
	opts.Logger = &logger

	profile := termenv.Ascii
	width := DefaultTerminalWidth
	if a.interactive {
		profile = GetColorProfile()
		width = GetTerminalWidth()
	}
	out := termenv.NewOutput(a.out, termenv.WithProfile(profile))

	sink := newLineSink(out, width, a.interactive)
	sess := session.New(sink, a.client(), opts)
	sink.strings = sess.Strings

	reader := newLineReader(a)
	defer reader.Close()

	if a.interactive {
		strs := sess.Strings()
		fmt.Fprintln(out, out.String(strs.Title).Bold())
		fmt.Fprintln(out, out.String("/help /clear /quit").Faint())
	}

	for {
		line, err := reader.Prompt(linePrompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(line) {
		case "/quit", "/exit", "/q":
			return nil
		case "/help", "/h":
			printLineHelp(out, sess.Strings(), width, a.interactive && profile != termenv.Ascii)
			continue
		case "/clear", "/c":
			sink.Clear()
			continue
		}

		if ctx.Err() != nil {
			return nil
		}
		// Blank lines are ignored by the session.
		sess.Ask(ctx, line)
	}
}

func printLineHelp(w io.Writer, strs locale.Table, width int, styled bool) {
	help := strs.Help
	if styled {
		help = components.RenderMarkdown(help, width, termenv.HasDarkBackground())
	}
	fmt.Fprintln(w, help)
	fmt.Fprint(w, lineCommands)
}

// =============================================================================
// LINE SINK
// =============================================================================

// lineSink prints the transcript as labeled lines. Outstanding markers are
// drawn as the last lines of output and erased before anything else is
// printed; they are only drawn when the output is a terminal.
type lineSink struct {
	out        *termenv.Output
	width      int
	markers    bool
	strings    func() locale.Table
	transcript *model.Transcript

	// drawn is how many marker lines are currently on screen.
	drawn int
}

func newLineSink(out *termenv.Output, width int, markers bool) *lineSink {
	return &lineSink{
		out:        out,
		width:      width,
		markers:    markers,
		strings:    locale.Default,
		transcript: model.NewTranscript(),
	}
}

func (s *lineSink) Append(msg model.Message) {
	s.transcript.Append(msg)
	s.eraseMarkers()
	s.writeMessage(msg)
	s.drawMarkers()
}

// ScrollToEnd is a no-op: the terminal keeps the newest line visible.
func (s *lineSink) ScrollToEnd() {}

func (s *lineSink) ShowMarker(tok model.RequestToken) {
	s.transcript.AddMarker(tok)
	s.eraseMarkers()
	s.drawMarkers()
}

func (s *lineSink) RemoveMarker(tok model.RequestToken) {
	if !s.transcript.RemoveMarker(tok) {
		return
	}
	s.eraseMarkers()
	s.drawMarkers()
}

// Clear forgets the transcript and, on a terminal, clears the screen.
func (s *lineSink) Clear() {
	s.transcript.Clear()
	s.drawn = 0
	if s.markers {
		s.out.ClearScreen()
	}
}

func (s *lineSink) writeMessage(msg model.Message) {
	strs := s.strings()
	label := strs.Bot
	color := "#10B981"
	if msg.IsUser() {
		label = strs.You
		color = "#06B6D4"
	}

	lines := strings.Split(util.SanitizeText(msg.Text), "\n")
	lines[0] = label + ": " + lines[0]
	for i, line := range lines {
		if strs.RTL() {
			line = util.PadToWidth(line, s.width)
		}
		if i == 0 {
			// Style only the label; padding was measured on plain text.
			styled := s.out.String(label).Foreground(s.out.Color(color)).Bold().String()
			line = strings.Replace(line, label, styled, 1)
		}
		fmt.Fprintln(s.out, line)
	}
}

func (s *lineSink) drawMarkers() {
	if !s.markers {
		return
	}
	strs := s.strings()
	for range s.transcript.Markers() {
		line := strs.Typing + " ..."
		if strs.RTL() {
			line = util.PadToWidth(line, s.width)
		}
		fmt.Fprintln(s.out, s.out.String(line).Faint())
		s.drawn++
	}
}

func (s *lineSink) eraseMarkers() {
	for ; s.drawn > 0; s.drawn-- {
		s.out.CursorPrevLine(1)
		s.out.ClearLine()
	}
}

// =============================================================================
// LINE READERS
// =============================================================================

// lineReader yields one line per call and io.EOF at the end of input.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

func newLineReader(a *app) lineReader {
	if a.interactive {
		return newHistoryReader()
	}
	return &pipeReader{r: bufio.NewReader(a.in)}
}

// pipeReader reads piped input. No prompt is printed and lines have no
// length limit.
type pipeReader struct {
	r *bufio.Reader
}

func (r *pipeReader) Prompt(string) (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *pipeReader) Close() error { return nil }

// historyReader provides line editing and persistent input history.
type historyReader struct {
	line        *liner.State
	historyFile string
}

func newHistoryReader() *historyReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &historyReader{line: line}
	if dir, err := config.ConfigDir(); err == nil {
		r.historyFile = filepath.Join(dir, historyFileName)
		if f, err := os.Open(r.historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

func (r *historyReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (r *historyReader) Close() error {
	if r.historyFile != "" {
		if err := config.EnsureConfigDir(); err == nil {
			if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				_, _ = r.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	return r.line.Close()
}
