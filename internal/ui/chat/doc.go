// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat view for ragchat.
//
// The Model owns the transcript and acts as the session's Sink. Submitting
// runs session.Submit on the update loop, clears the input, and returns a
// command that performs the network round-trip off the loop. The answer
// comes back as a message and is resolved on the loop, so the sink is only
// ever touched from one goroutine.
//
// Several questions may be in flight at once; each has its own typing
// marker and answers render in arrival order unless the stale policy is
// latest_wins.
//
// # Key Bindings
//
//	Enter       send the question
//	Esc/Ctrl+C  quit (Esc closes the help overlay first)
//	PgUp/PgDn   scroll
//	Ctrl+Y      copy the last answer
//	Ctrl+L      clear the conversation
//	F1          toggle help
//
// Config reloads arrive as ConfigReloadedMsg and swap the locale strings,
// index and stale policy without restarting.
package chat
