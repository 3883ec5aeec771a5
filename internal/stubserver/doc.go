// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stubserver provides a local stand-in for the answer service.
//
// Endpoints:
//   - POST /api/v1/nlp/index/answer/{index_id} - answer a question
//   - GET  /api/v1/                            - service name and version
//
// Answers come from a table of question fragments. A question containing a
// known fragment gets {"signal":"rag_answer_success","answer":...}; anything
// else gets {"signal":"rag_answer_no_results"}. Unknown indexes return 404
// and malformed bodies return 400, so every client render path can be
// exercised without the real retrieval backend.
package stubserver
