// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/ragchat/internal/logging"
	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/session"
	"github.com/jeranaias/ragchat/internal/ui/components"
	"github.com/jeranaias/ragchat/internal/util"
)

func newAskCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer",
		Long: `Ask one question and print the answer, or the localized fallback when the
service has none. Exits 1 when the request failed.

With --json the service's reply is printed as received, indented and
highlighted when writing to a terminal.`,
		Example: `  ragchat ask "who are you"
  ragchat ask --json --index collection_2 "what is RAG"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if strings.TrimSpace(question) == "" {
				return errors.New("question is empty")
			}
			if asJSON {
				return a.askJSON(cmd.Context(), question)
			}
			return a.ask(cmd.Context(), question)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw response JSON")
	return cmd
}

// ask runs one exchange through a session so the printed text follows the
// same rules as the chat: answer, "no answer" string or error string.
func (a *app) ask(ctx context.Context, question string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts, err := session.OptionsFromConfig(a.cfg)
	if err != nil {
		return err
	}
	logger := logging.Component("ask")
	opts.Logger = &logger

	sess := session.New(&answerSink{out: a.out}, a.client(), opts)
	outcome, _ := sess.Ask(ctx, question)
	if outcome == session.OutcomeFailed {
		return errSilent
	}
	return nil
}

func (a *app) askJSON(ctx context.Context, question string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := a.client().Answer(ctx, a.cfg.Server.IndexID, strings.TrimSpace(question))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, components.HighlightJSON(resp.Raw, a.interactive && ColorsEnabled()))
	return nil
}

// answerSink prints bot messages only, one per line, and ignores markers.
type answerSink struct {
	out io.Writer
}

func (s *answerSink) Append(msg model.Message) {
	if msg.IsBot() {
		fmt.Fprintln(s.out, util.SanitizeText(msg.Text))
	}
}

func (s *answerSink) ScrollToEnd()                    {}
func (s *answerSink) ShowMarker(model.RequestToken)   {}
func (s *answerSink) RemoveMarker(model.RequestToken) {}
