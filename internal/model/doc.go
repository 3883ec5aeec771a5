// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
//
// # Key Types
//
//   - Message: one immutable transcript entry tagged with its Sender
//   - Transcript: ordered, append-only message log plus the set of
//     outstanding typing markers
//   - RequestToken: identifies one submitted question across its
//     asynchronous lifecycle
//
// # Usage
//
//	tr := model.NewTranscript()
//	seq := model.NewSequencer()
//	tok := seq.Next()
//	tr.Append(model.NewUserMessage("ما هي ساعات العمل؟", tok))
//	tr.AddMarker(tok)
//	...
//	tr.RemoveMarker(tok)
//	tr.Append(model.NewBotMessage("من 9 صباحاً إلى 5 مساءً", tok))
package model
