// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the answer client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by Type so callers can write
// errors.Is(err, answer.ErrTimeout).
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.StatusCode == 0 && t.Cause == nil
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeInvalidResponse
)

// String returns a short name for the error type, used in log fields.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrConnection      = &ClientError{Type: ErrTypeConnection, Message: "answer service unreachable"}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrStatus          = &ClientError{Type: ErrTypeStatus, Message: "answer service returned an error status"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response from answer service"}
)

// MaxResponseBytes caps how much of a reply body is read.
const MaxResponseBytes = 1 << 20

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the answer client.
type ClientConfig struct {
	// BaseURL is the service origin (default: http://127.0.0.1:5000)
	BaseURL string

	// AnswerPath is prepended to the index ID (default: /api/v1/nlp/index/answer/)
	AnswerPath string

	// Limit is sent with every question (default: 5)
	Limit int

	// Timeout for one round-trip. Zero leaves the transport default in place.
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout. Used in tests.
	HTTPClient *http.Client
}

const (
	DefaultBaseURL    = "http://127.0.0.1:5000"
	DefaultAnswerPath = "/api/v1/nlp/index/answer/"
	DefaultIndexID    = "collection_1"
	DefaultTimeout    = 60 * time.Second
)

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:    DefaultBaseURL,
		AnswerPath: DefaultAnswerPath,
		Limit:      DefaultLimit,
		Timeout:    DefaultTimeout,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the answer service.
//
// The Client is thread-safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new client. A nil config uses DefaultConfig.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.AnswerPath == "" {
		config.AnswerPath = DefaultAnswerPath
	}
	if config.Limit <= 0 {
		config.Limit = DefaultLimit
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured service origin.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// AnswerURL returns the endpoint a question for indexID is posted to.
func (c *Client) AnswerURL(indexID string) string {
	path := c.config.AnswerPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.config.BaseURL + path + url.PathEscape(indexID)
}

// =============================================================================
// ANSWER
// =============================================================================

// Answer posts question to the index and decodes the reply.
//
// A nil error means the round-trip completed with a 2xx status and a JSON
// body; the caller still has to check Succeeded. Transport failures,
// non-2xx statuses and undecodable bodies all return a *ClientError.
func (c *Client) Answer(ctx context.Context, indexID, question string) (*Response, error) {
	body, err := json.Marshal(Request{Text: question, Limit: c.config.Limit})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AnswerURL(indexID), bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return decodeResponse(raw)
}

// decodeResponse accepts any valid JSON. Only an object yields a signal and
// an answer; other shapes decode to an empty Response.
func decodeResponse(raw []byte) (*Response, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	resp := &Response{Raw: json.RawMessage(raw)}
	if obj, ok := v.(map[string]any); ok {
		resp.Signal, _ = obj["signal"].(string)
		resp.Answer, resp.HasAnswer = obj["answer"].(string)
	}
	return resp, nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckHealth queries the service's base route.
func (c *Client) CheckHealth(ctx context.Context) (*HealthInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/v1/", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var info HealthInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode health response", Cause: err}
	}
	return &info, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do sends req and returns the body of a 2xx reply.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &ClientError{
			Type:       ErrTypeStatus,
			Message:    "answer request failed: " + resp.Status,
			StatusCode: resp.StatusCode,
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if len(raw) > MaxResponseBytes {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("response body exceeds %d bytes", MaxResponseBytes),
		}
	}
	return raw, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "answer service unreachable", Cause: err}
}

// =============================================================================
// REQUEST ID
// =============================================================================

type requestIDKey struct{}

// WithRequestID attaches id to ctx; Answer sends it as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the ID set by WithRequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
