// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stubserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragchat/internal/answer"
)

func newTestServer(opts Options) *Server {
	l := zerolog.Nop()
	opts.Logger = &l
	return New(opts)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestHandleAnswer(t *testing.T) {
	h := newTestServer(Options{}).Handler()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantSignal string
		wantAnswer string
	}{
		{
			name:       "canned intro",
			path:       "/api/v1/nlp/index/answer/collection_1",
			body:       `{"text":"مرحبا، من أنت؟","limit":5}`,
			wantStatus: http.StatusOK,
			wantSignal: answer.SignalSuccess,
			wantAnswer: introAnswer,
		},
		{
			name:       "case insensitive",
			path:       "/api/v1/nlp/index/answer/collection_1",
			body:       `{"text":"WHO ARE YOU","limit":5}`,
			wantStatus: http.StatusOK,
			wantSignal: answer.SignalSuccess,
			wantAnswer: "I am the institute's student assistant.",
		},
		{
			name:       "no match",
			path:       "/api/v1/nlp/index/answer/collection_1",
			body:       `{"text":"ما هو الطقس؟","limit":5}`,
			wantStatus: http.StatusOK,
			wantSignal: answer.SignalNoResults,
		},
		{
			name:       "unknown index",
			path:       "/api/v1/nlp/index/answer/collection_9",
			body:       `{"text":"من أنت","limit":5}`,
			wantStatus: http.StatusNotFound,
			wantSignal: "project_not_found",
		},
		{
			name:       "malformed body",
			path:       "/api/v1/nlp/index/answer/collection_1",
			body:       `{"text":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank text",
			path:       "/api/v1/nlp/index/answer/collection_1",
			body:       `{"text":"  ","limit":5}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := post(t, h, tc.path, tc.body)
			if resp.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", resp.Code, tc.wantStatus, resp.Body.String())
			}
			assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

			var got map[string]string
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
			if tc.wantSignal != "" {
				assert.Equal(t, tc.wantSignal, got["signal"])
			}
			assert.Equal(t, tc.wantAnswer, got["answer"])
		})
	}
}

func TestHandleAnswer_CustomTable(t *testing.T) {
	s := newTestServer(Options{
		Indexes: []string{"faq"},
		Answers: map[string]string{"hours": "9 to 5", "office hours": "9 to 3"},
	})

	resp := post(t, s.Handler(), "/api/v1/nlp/index/answer/faq", `{"text":"what are the office hours?"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "9 to 3", "longest fragment wins")
	assert.Equal(t, int64(1), s.Requests())
}

func TestHandleBase(t *testing.T) {
	h := newTestServer(Options{}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var info answer.HealthInfo
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &info))
	assert.Equal(t, AppName, info.AppName)
	assert.Equal(t, Version, info.AppVersion)
}

func TestWrap_RecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	s := New(Options{Logger: &logger})

	h := s.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, logs.String(), `"status":500`)
	assert.Contains(t, logs.String(), `"path":"/api/v1/"`)
}

// The stub must satisfy the real client end to end.
func TestServeWithClient(t *testing.T) {
	s := newTestServer(Options{Delay: 10 * time.Millisecond})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	client := answer.NewClient(&answer.ClientConfig{BaseURL: "http://" + ln.Addr().String()})
	ctx := context.Background()

	resp, err := client.Answer(ctx, answer.DefaultIndexID, "من انت")
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())

	info, err := client.CheckHealth(ctx)
	require.NoError(t, err)
	assert.Equal(t, AppName, info.AppName)

	_, err = client.Answer(ctx, "missing", "من انت")
	assert.ErrorIs(t, err, answer.ErrStatus)

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(shutdownCtx))
	assert.NoError(t, <-done)
}
