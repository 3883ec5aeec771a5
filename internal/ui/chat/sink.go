// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/jeranaias/ragchat/internal/model"

// viewSink is the session.Sink behind the chat view. It lives behind a
// pointer so the value copies Bubble Tea makes of Model share one
// transcript. Only the update loop calls it.
type viewSink struct {
	transcript *model.Transcript
	dirty      bool
	scroll     bool
}

func newViewSink() *viewSink {
	return &viewSink{transcript: model.NewTranscript()}
}

func (v *viewSink) Append(msg model.Message) {
	v.transcript.Append(msg)
	v.dirty = true
}

func (v *viewSink) ScrollToEnd() {
	v.scroll = true
}

func (v *viewSink) ShowMarker(tok model.RequestToken) {
	v.transcript.AddMarker(tok)
	v.dirty = true
}

func (v *viewSink) RemoveMarker(tok model.RequestToken) {
	if v.transcript.RemoveMarker(tok) {
		v.dirty = true
	}
}

// take returns and resets the pending redraw and scroll requests.
func (v *viewSink) take() (dirty, scroll bool) {
	dirty, scroll = v.dirty, v.scroll
	v.dirty, v.scroll = false, false
	return dirty, scroll
}
