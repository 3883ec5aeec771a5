// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"

	"github.com/jeranaias/ragchat/internal/answer"
	"github.com/jeranaias/ragchat/internal/model"
)

// Sink is the transcript as a front end presents it.
type Sink interface {
	// Append adds msg as the newest entry. Text is shown literally.
	Append(msg model.Message)
	// ScrollToEnd makes the newest entry visible.
	ScrollToEnd()
	// ShowMarker shows the typing indicator for tok.
	ShowMarker(tok model.RequestToken)
	// RemoveMarker hides the indicator for tok. Absent markers are a no-op.
	RemoveMarker(tok model.RequestToken)
}

// Answerer sends one question to the answer service.
type Answerer interface {
	Answer(ctx context.Context, indexID, question string) (*answer.Response, error)
}
