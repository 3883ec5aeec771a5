// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives one chat conversation.
//
// A Session owns no I/O. It writes to a Sink (the transcript as some
// front end shows it) and asks an Answerer for replies. Each submitted
// question gets its own RequestToken, and the typing marker shown for it is
// removed by token. An answer that arrives late can therefore only remove
// its own marker, never another request's.
//
// # Lifecycle
//
//	p, ok := s.Submit(input)      // echo, scroll, show marker
//	if !ok { return }             // blank input: nothing happened
//	clearInputField()
//	res := s.Fetch(ctx, p)        // network round-trip, may run on any goroutine
//	s.Resolve(p, res)             // remove marker, then render one bot message
//
// Run combines Fetch and Resolve for callers that block.
//
// # Stale answers
//
// With StaleRenderAll every answer is rendered in arrival order. With
// StaleLatestWins an answer whose question was followed by a newer one only
// removes its marker.
package session
