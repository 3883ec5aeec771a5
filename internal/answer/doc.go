// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package answer provides the HTTP client for the question-answering service.
//
// One question is one POST to {BaseURL}{AnswerPath}{indexID} carrying
// {"text": question, "limit": N}. The reply is {"signal", "answer"}; only the
// "rag_answer_success" signal means an answer was found.
//
// # Key Types
//
//   - Client: HTTP client for the answer service
//   - Response: decoded reply, including the raw body
//   - ClientError: typed failure (connection, timeout, status, invalid response)
//
// # Usage
//
//	client := answer.NewClient(&answer.ClientConfig{BaseURL: "http://127.0.0.1:5000"})
//	resp, err := client.Answer(ctx, "collection_1", "ما هي ساعات العمل؟")
//	if err != nil {
//	    // transport failure, non-2xx, or undecodable body
//	}
//	if resp.Succeeded() {
//	    fmt.Println(resp.Answer)
//	}
//
// The client never retries.
package answer
