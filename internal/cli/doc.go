// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the ragchat command line.
//
// Commands:
//
//	ragchat               full-screen chat on a terminal, line mode otherwise
//	ragchat tui           full-screen chat
//	ragchat chat          line-mode chat (liner history, /help /clear /quit)
//	ragchat ask <q>       one question; --json prints the raw reply
//	ragchat status        health check against the service base route
//	ragchat config ...    show, path, init, get, set, locales
//	ragchat stub          local stub answer service
//	ragchat version       build information
//
// Settings come from, highest first: flags, RAGCHAT_* environment variables,
// a .env file in the working directory, ~/.ragchat/config.toml, defaults.
package cli
