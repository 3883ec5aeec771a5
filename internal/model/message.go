// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known senders.
func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderBot
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single transcript entry. Text is always plain text; renderers
// must never interpret markup or escape sequences in it.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// RequestID links both halves of an exchange to the same RequestToken.
	// Empty for messages that were not produced by a submission.
	RequestID string `json:"request_id,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(sender Sender, text string, tok RequestToken) Message {
	return Message{
		ID:        "msg_" + uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
		RequestID: tok.ID,
	}
}

// NewUserMessage creates a new user message for the given request.
func NewUserMessage(text string, tok RequestToken) Message {
	return NewMessage(SenderUser, text, tok)
}

// NewBotMessage creates a new bot message answering the given request.
func NewBotMessage(text string, tok RequestToken) Message {
	return NewMessage(SenderBot, text, tok)
}

// IsUser returns true if this is a user message.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// IsBot returns true if this is a bot message.
func (m Message) IsBot() bool {
	return m.Sender == SenderBot
}

// FormattedTime returns the message time as HH:MM.
func (m Message) FormattedTime() string {
	return m.Timestamp.Format("15:04")
}
