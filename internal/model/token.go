// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// RequestToken identifies one submission. ID is opaque and unique; Seq
// increases with every submission from the same Sequencer, so comparing
// Seq tells which of two requests was submitted later.
type RequestToken struct {
	ID  string
	Seq uint64
}

// IsZero reports whether the token was never issued.
func (t RequestToken) IsZero() bool {
	return t.ID == "" && t.Seq == 0
}

// String returns the opaque ID.
func (t RequestToken) String() string {
	return t.ID
}

// Sequencer issues RequestTokens. Safe for concurrent use.
type Sequencer struct {
	seq atomic.Uint64
}

// NewSequencer returns a sequencer whose first token has Seq 1.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next issues a fresh token.
func (s *Sequencer) Next() RequestToken {
	return RequestToken{
		ID:  uuid.NewString(),
		Seq: s.seq.Add(1),
	}
}

// Latest returns the sequence number of the most recently issued token,
// or 0 if none has been issued.
func (s *Sequencer) Latest() uint64 {
	return s.seq.Load()
}
