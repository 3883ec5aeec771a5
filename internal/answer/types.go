// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package answer

import "encoding/json"

// SignalSuccess is the only signal value that carries an answer.
const SignalSuccess = "rag_answer_success"

// SignalNoResults is what the bundled stub server sends when nothing matched.
// Any value other than SignalSuccess is treated the same way by the client.
const SignalNoResults = "rag_answer_no_results"

// DefaultLimit is the number of retrieved passages requested per question.
const DefaultLimit = 5

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// Request is the JSON body sent for one question.
type Request struct {
	Text  string `json:"text"`
	Limit int    `json:"limit"`
}

// Response is the decoded reply. Fields are empty when the body was valid
// JSON but not the expected object shape.
type Response struct {
	Signal string `json:"signal"`
	Answer string `json:"answer"`

	// HasAnswer is true when the body carried a string answer, even an
	// empty one.
	HasAnswer bool `json:"-"`

	// Raw is the body exactly as received.
	Raw json.RawMessage `json:"-"`
}

// Succeeded reports whether the reply carries an answer.
func (r *Response) Succeeded() bool {
	return r != nil && r.Signal == SignalSuccess
}

// HealthInfo is returned by the service's base route.
type HealthInfo struct {
	AppName    string `json:"app_name"`
	AppVersion string `json:"app_version"`
}
