// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"

	"github.com/jeranaias/ragchat/internal/model"
)

// Recorder is a Sink backed by a model.Transcript. It also counts calls so
// ordering can be checked.
type Recorder struct {
	Transcript *model.Transcript

	mu      sync.Mutex
	scrolls int
	events  []string
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Transcript: model.NewTranscript()}
}

func (r *Recorder) Append(msg model.Message) {
	r.Transcript.Append(msg)
	r.event("append:" + msg.Sender.String())
}

func (r *Recorder) ScrollToEnd() {
	r.mu.Lock()
	r.scrolls++
	r.mu.Unlock()
	r.event("scroll")
}

func (r *Recorder) ShowMarker(tok model.RequestToken) {
	r.Transcript.AddMarker(tok)
	r.event("show")
}

func (r *Recorder) RemoveMarker(tok model.RequestToken) {
	r.Transcript.RemoveMarker(tok)
	r.event("remove")
}

// Scrolls returns how many times ScrollToEnd was called.
func (r *Recorder) Scrolls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scrolls
}

// Events returns the sink calls in order, e.g. "append:user", "show".
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) event(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}
