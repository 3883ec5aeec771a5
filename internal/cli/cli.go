// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/ragchat/internal/answer"
	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/logging"
	"github.com/jeranaias/ragchat/internal/ui/styles"
)

// Version information (set at build time via main).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// errSilent makes a command exit non-zero without cobra printing anything;
// the command has already told the user what went wrong.
var errSilent = errors.New("")

// =============================================================================
// APP STATE
// =============================================================================

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	baseURL    string
	indexID    string
	locale     string
	logLevel   string
	verbose    bool
}

// app carries the loaded config and IO streams through a command run.
type app struct {
	flags   globalFlags
	changed map[string]bool
	cfg     *config.Config

	// cfgPath is the file the config came from; empty when only defaults
	// were used and no --config was given.
	cfgPath  string
	logClose io.Closer

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// interactive is true when stdin and stdout are terminals.
	interactive bool
}

// client builds the answer client from the loaded config.
func (a *app) client() *answer.Client {
	return answer.NewClient(&answer.ClientConfig{
		BaseURL:    a.cfg.Server.BaseURL,
		AnswerPath: a.cfg.Server.AnswerPath,
		Limit:      a.cfg.Server.Limit,
		Timeout:    a.cfg.Server.Timeout(),
	})
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// Execute runs the CLI against the process streams and returns the exit code.
func Execute() int {
	a := &app{
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: IsTTY() && IsStdoutTTY(),
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(a.errOut, styles.RenderError(err.Error()))
		}
		return 1
	}
	return 0
}

// run executes one command line. The log file opened by setup is closed
// whether or not the command succeeds.
func (a *app) run(ctx context.Context, args []string) error {
	defer func() {
		if err := a.teardown(); err != nil {
			fmt.Fprintln(a.errOut, styles.RenderWarning("closing log file: "+err.Error()))
		}
	}()

	root := newRootCommand(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ragchat",
		Short: "Terminal chat client for a retrieval-augmented answer service",
		Long: `ragchat sends questions to a retrieval-augmented answer service and shows
the answers as a conversation. Without a subcommand it opens the full-screen
chat when attached to a terminal and falls back to line mode otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.interactive {
				return runTUI(cmd.Context(), a)
			}
			return runLineChat(cmd.Context(), a)
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.ragchat/config.toml)")
	pf.StringVar(&a.flags.baseURL, "base-url", "", "answer service base URL")
	pf.StringVar(&a.flags.indexID, "index", "", "knowledge index to query")
	pf.StringVar(&a.flags.locale, "locale", "", "UI language (BCP-47 tag, e.g. ar or en)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "also write the log to stderr")

	root.AddCommand(
		newChatCommand(a),
		newTUICommand(a),
		newAskCommand(a),
		newStatusCommand(a),
		newConfigCommand(a),
		newStubCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads the config and starts logging. Precedence, highest first:
// flags, RAGCHAT_* environment, .env, config file, defaults.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(a.errOut, styles.RenderWarning(err.Error()))
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := a.applyFlags(cmd, cfg); err != nil {
		return err
	}
	a.cfg = cfg

	closer, err := logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    a.flags.verbose,
		Stderr:     a.errOut,
	})
	if err != nil {
		return err
	}
	a.logClose = closer

	log.Debug().
		Str("command", cmd.CommandPath()).
		Str("config", a.cfgPath).
		Str("base_url", cfg.Server.BaseURL).
		Str("index_id", cfg.Server.IndexID).
		Str("locale", cfg.UI.Locale).
		Msg("starting")
	return nil
}

func (a *app) teardown() error {
	if a.logClose == nil {
		return nil
	}
	err := a.logClose.Close()
	a.logClose = nil
	return err
}

// loadConfig reads --config if given, else the default locations. A broken
// default file is reported and defaults are used; a broken --config file is
// an error.
func (a *app) loadConfig() (*config.Config, error) {
	if a.flags.configPath != "" {
		a.cfgPath = a.flags.configPath
		return config.LoadFromPath(a.flags.configPath)
	}

	cfg, err := config.Load()
	if cfg == nil {
		return nil, err
	}
	if err != nil {
		fmt.Fprintln(a.errOut, styles.RenderWarning(err.Error()+"; using defaults"))
	}
	if path, pathErr := config.ActivePath(); pathErr == nil {
		a.cfgPath = path
	}
	return cfg, nil
}

// applyFlags records which persistent flags were set explicitly and
// overlays them on cfg.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	a.changed = make(map[string]bool)
	for _, name := range []string{"base-url", "index", "locale", "log-level"} {
		if flags.Changed(name) {
			a.changed[name] = true
		}
	}
	return a.overlayFlags(cfg)
}

// overlayFlags applies the explicitly set flags to cfg and validates the
// result. It is also run on every hot-reloaded config.
func (a *app) overlayFlags(cfg *config.Config) error {
	if a.changed["base-url"] {
		cfg.Server.BaseURL = a.flags.baseURL
	}
	if a.changed["index"] {
		cfg.Server.IndexID = a.flags.indexID
	}
	if a.changed["locale"] {
		cfg.UI.Locale = a.flags.locale
	}
	if a.changed["log-level"] {
		cfg.Log.Level = a.flags.logLevel
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
