// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ragchat.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, validation and hot reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: where questions are sent (base URL, path, index, limit)
//   - UIConfig: locale, theme and the stale-answer policy
//   - LogConfig: operator log level and rotation
//   - Watcher: reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the cli package)
//   - Environment variables (RAGCHAT_*), including a .env file in the
//     working directory
//   - ~/.ragchat/config.toml
//   - ~/.ragchat/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := answer.NewClient(&answer.ClientConfig{
//	    BaseURL: cfg.Server.BaseURL,
//	    Timeout: cfg.Server.Timeout(),
//	})
package config
