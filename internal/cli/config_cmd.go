// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/locale"
	"github.com/jeranaias/ragchat/internal/ui/styles"
)

// stringsPrefix addresses the [strings] override table in get/set keys.
const stringsPrefix = "strings."

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration file",
		// Config commands must work when the file itself is broken, so a
		// load failure falls back to defaults instead of aborting.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					fmt.Fprintln(a.errOut, styles.RenderWarning(err.Error()+"; using defaults"))
				}
				a.cfg = config.Default()
				if a.cfgPath == "" {
					a.cfgPath, _ = config.ActivePath()
				}
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as TOML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(a.out, a.cfg.String())
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := a.targetPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, path)
				return nil
			},
		},
		newConfigInitCommand(a),
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one value (e.g. server.index_id, strings.no_answer)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.configGet(args[0])
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one value in the configuration file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.configSet(args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "locales",
			Short: "List the built-in UI languages",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				current := locale.Lookup(a.cfg.UI.Locale).Tag.String()
				for _, tag := range locale.Supported() {
					mark := " "
					if tag == current {
						mark = "*"
					}
					fmt.Fprintf(a.out, "%s %s\n", mark, tag)
				}
				return nil
			},
		},
	)
	return cmd
}

func newConfigInitCommand(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.targetPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := ensureParentDir(a); err != nil {
				return err
			}
			if err := config.SaveTOML(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintln(a.out, styles.RenderSuccess("wrote "+path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// targetPath is the TOML file config commands write: --config if given,
// else ~/.ragchat/config.toml.
func (a *app) targetPath() (string, error) {
	if a.flags.configPath != "" {
		if strings.HasSuffix(a.flags.configPath, ".json") {
			return "", errors.New("config commands write TOML; pass a .toml path to --config")
		}
		return a.flags.configPath, nil
	}
	return config.ConfigPathTOML()
}

// ensureParentDir creates ~/.ragchat when writing the default file.
func ensureParentDir(a *app) error {
	if a.flags.configPath != "" {
		return nil
	}
	return config.EnsureConfigDir()
}

func (a *app) configGet(key string) error {
	if name, ok := strings.CutPrefix(key, stringsPrefix); ok {
		if !slices.Contains(locale.OverrideKeys(), name) {
			return fmt.Errorf("unknown string key %q (one of: %s)", name, strings.Join(locale.OverrideKeys(), ", "))
		}
		fmt.Fprintln(a.out, a.cfg.Strings[name])
		return nil
	}
	v, err := a.cfg.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, v)
	return nil
}

// configSet edits the file itself: environment and flag overrides are not
// written back.
func (a *app) configSet(key, value string) error {
	path, err := a.targetPath()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return fmt.Errorf("cannot edit %s: %w", path, err)
		}
	}

	if name, ok := strings.CutPrefix(key, stringsPrefix); ok {
		if !slices.Contains(locale.OverrideKeys(), name) {
			return fmt.Errorf("unknown string key %q (one of: %s)", name, strings.Join(locale.OverrideKeys(), ", "))
		}
		if cfg.Strings == nil {
			cfg.Strings = make(map[string]string)
		}
		if value == "" {
			delete(cfg.Strings, name)
		} else {
			cfg.Strings[name] = value
		}
	} else if err := cfg.Set(key, value); err != nil {
		return err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := ensureParentDir(a); err != nil {
		return err
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return err
	}
	fmt.Fprintln(a.out, styles.RenderSuccess(fmt.Sprintf("%s = %q", key, value)))
	return nil
}
