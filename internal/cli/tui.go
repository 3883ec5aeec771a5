// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/ui/chat"
)

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive {
				return &TTYRequiredError{Operation: "open the full-screen chat"}
			}
			return runTUI(cmd.Context(), a)
		},
	}
}

// TTYRequiredError is returned when a command needs a terminal.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	return "stdin/stdout is not a terminal; cannot " + e.Operation + " (try 'ragchat chat')"
}

// runTUI starts the Bubble Tea chat. While it runs the config file is
// watched and every reload is forwarded to the model.
func runTUI(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}

	m, err := chat.New(chat.Options{
		Answerer: a.client(),
		Config:   a.cfg,
		Context:  ctx,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if w := a.watchConfig(func(cfg *config.Config, err error) {
		p.Send(chat.ConfigReloadedMsg{Config: cfg, Err: err})
	}); w != nil {
		defer w.Close()
	}

	// An interrupt cancels ctx, which kills the program; that is a normal exit.
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// watchConfig starts a watcher on the active config file. Flag overrides
// are reapplied to every reloaded config. A nil watcher means watching
// could not start; the chat works without it.
func (a *app) watchConfig(onReload config.ReloadFunc) *config.Watcher {
	if a.cfgPath == "" {
		return nil
	}
	if err := config.EnsureConfigDir(); err != nil && a.flags.configPath == "" {
		log.Warn().Err(err).Msg("config directory unavailable, hot reload disabled")
		return nil
	}

	w, err := config.NewWatcher(a.cfgPath, 0, func(cfg *config.Config, err error) {
		if err == nil && cfg != nil {
			err = a.overlayFlags(cfg)
		}
		if err != nil {
			cfg = nil
		}
		onReload(cfg, err)
	})
	if err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable, hot reload disabled")
		return nil
	}
	if err := w.Watch(); err != nil {
		log.Warn().Err(err).Str("path", w.Path()).Msg("config watch failed, hot reload disabled")
		w.Close()
		return nil
	}
	log.Debug().Str("path", w.Path()).Msg("watching config")
	return w
}
