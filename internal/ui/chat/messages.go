// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/session"
)

// answerMsg carries a finished round-trip back to the update loop.
type answerMsg struct {
	pending *session.Pending
	result  session.Result
}

// ConfigReloadedMsg is sent by the config watcher. Err is set when the file
// changed but could not be loaded; the running config is kept in that case.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// clearNoticeMsg expires the status notice with the matching id.
type clearNoticeMsg struct {
	id int
}
