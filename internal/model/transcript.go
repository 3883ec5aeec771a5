// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"sync"
)

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered, append-only log of exchanged messages plus the
// set of typing markers that are currently shown. Messages are never edited
// or removed once appended.
//
// THREAD-SAFE: answers resolve on their own goroutines in line mode, so all
// access goes through mu.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	markers  map[string]RequestToken
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		messages: make([]Message, 0),
		markers:  make(map[string]RequestToken),
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// Append adds msg as the newest entry.
func (t *Transcript) Append(msg Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
}

// Messages returns a copy of all entries, oldest first.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Last returns the newest entry.
func (t *Transcript) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// LastFrom returns the newest entry produced by sender.
func (t *Transcript) LastFrom(sender Sender) (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Sender == sender {
			return t.messages[i], true
		}
	}
	return Message{}, false
}

// Clear drops every entry and marker. Used by the /clear command; the
// transcript is otherwise append-only.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = make([]Message, 0)
	t.markers = make(map[string]RequestToken)
}

// =============================================================================
// MARKERS
// =============================================================================

// AddMarker records that tok has an outstanding typing marker.
func (t *Transcript) AddMarker(tok RequestToken) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.markers[tok.ID] = tok
}

// RemoveMarker drops the marker for tok. Removing an absent marker is a
// no-op; the return value reports whether anything was removed.
func (t *Transcript) RemoveMarker(tok RequestToken) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.markers[tok.ID]; !ok {
		return false
	}
	delete(t.markers, tok.ID)
	return true
}

// HasMarker reports whether tok has an outstanding marker.
func (t *Transcript) HasMarker(tok RequestToken) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.markers[tok.ID]
	return ok
}

// Markers returns the outstanding markers in submission order.
func (t *Transcript) Markers() []RequestToken {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]RequestToken, 0, len(t.markers))
	for _, tok := range t.markers {
		out = append(out, tok)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// MarkerCount returns the number of outstanding markers.
func (t *Transcript) MarkerCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.markers)
}
