// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/ragchat/internal/answer"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is where `ragchat stub` listens.
	DefaultAddr = "127.0.0.1:5000"

	// MaxRequestBodySize caps question bodies (64KB).
	MaxRequestBodySize = 64 * 1024

	// AppName and Version are reported by the base route.
	AppName = "ragchat-stub"
	Version = "0.1.0"
)

// introAnswer is the canned self-introduction for "who are you" questions.
const introAnswer = "أنا مساعد طلاب ومتدربين المعهد السعودي العالي المتخصص للتدريب، هنا لمساعدتك ومعلوماتك عن برامج المعهد."

// DefaultAnswers maps question fragments to answers.
func DefaultAnswers() map[string]string {
	return map[string]string{
		"من أنت":      introAnswer,
		"من انت":      introAnswer,
		"عرف نفسك":    introAnswer,
		"ساعات العمل": "من 9 صباحاً إلى 5 مساءً",
		"who are you": "I am the institute's student assistant.",
	}
}

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	// Indexes that exist. Empty means only answer.DefaultIndexID.
	Indexes []string
	// Answers maps lower-case question fragments to answers. Nil uses DefaultAnswers.
	Answers map[string]string
	// Delay is added before every answer so the typing marker is visible.
	Delay time.Duration
	// Logger receives one line per request. Nil uses the global logger.
	Logger *zerolog.Logger
}

// Server is the stub answer service.
type Server struct {
	router   chi.Router
	indexes  map[string]bool
	answers  []fragment
	delay    time.Duration
	logger   zerolog.Logger
	requests atomic.Int64

	mu     sync.Mutex
	server *http.Server
}

type fragment struct {
	key    string
	answer string
}

// New creates a stub server.
func New(opts Options) *Server {
	indexes := opts.Indexes
	if len(indexes) == 0 {
		indexes = []string{answer.DefaultIndexID}
	}
	answers := opts.Answers
	if answers == nil {
		answers = DefaultAnswers()
	}

	s := &Server{
		indexes: make(map[string]bool, len(indexes)),
		delay:   opts.Delay,
		logger:  log.With().Str("component", "stubserver").Logger(),
	}
	if opts.Logger != nil {
		s.logger = *opts.Logger
	}
	for _, idx := range indexes {
		s.indexes[idx] = true
	}
	for k, v := range answers {
		s.answers = append(s.answers, fragment{key: strings.ToLower(k), answer: v})
	}
	// Longest fragment first so specific entries win over general ones.
	sort.Slice(s.answers, func(i, j int) bool {
		if len(s.answers[i].key) != len(s.answers[j].key) {
			return len(s.answers[i].key) > len(s.answers[j].key)
		}
		return s.answers[i].key < s.answers[j].key
	})

	s.setupRoutes()
	return s
}

// Handler returns the router with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.wrap(s.router)
}

// wrap applies the outer middleware. Logging sits outside recovery so a
// recovered panic is still logged with its 500.
func (s *Server) wrap(h http.Handler) http.Handler {
	return Chain(
		LoggingMiddleware(s.logger),
		middleware.Recoverer,
	)(h)
}

// Requests returns how many questions have been answered.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/", s.handleBase)
		api.Post("/nlp/index/answer/{index_id}", s.handleAnswer)
	})

	s.router = r
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleBase(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, answer.HealthInfo{AppName: AppName, AppVersion: Version})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	indexID := chi.URLParam(r, "index_id")
	if !s.indexes[indexID] {
		writeJSON(w, http.StatusNotFound, map[string]string{"signal": "project_not_found"})
		return
	}

	var req answer.Request
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	s.requests.Add(1)

	if text, ok := s.match(req.Text); ok {
		writeJSON(w, http.StatusOK, answer.Response{Signal: answer.SignalSuccess, Answer: text})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"signal": answer.SignalNoResults})
}

// match returns the answer for the first fragment contained in question.
func (s *Server) match(question string) (string, bool) {
	q := strings.ToLower(question)
	for _, f := range s.answers {
		if strings.Contains(q, f.key) {
			return f.answer, true
		}
	}
	return "", false
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.logger.Info().Str("addr", ln.Addr().String()).Str("version", Version).Msg("stub server started")
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ListenAndServe listens on addr and serves until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info().Int64("requests", s.Requests()).Msg("stub server shutting down")
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
