// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/ragchat/internal/answer"
	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/locale"
	"github.com/jeranaias/ragchat/internal/model"
)

// =============================================================================
// STALE POLICY
// =============================================================================

// StalePolicy decides what happens to an answer whose question has been
// followed by a newer one.
type StalePolicy int

const (
	// StaleRenderAll renders every answer in arrival order.
	StaleRenderAll StalePolicy = iota
	// StaleLatestWins drops answers to superseded questions.
	StaleLatestWins
)

func (p StalePolicy) String() string {
	if p == StaleLatestWins {
		return config.StaleLatestWins
	}
	return config.StaleRenderAll
}

// ParseStalePolicy maps a config value to a policy. Empty means render-all.
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", config.StaleRenderAll:
		return StaleRenderAll, nil
	case config.StaleLatestWins:
		return StaleLatestWins, nil
	}
	return StaleRenderAll, fmt.Errorf("unknown stale policy %q", s)
}

// =============================================================================
// OUTCOME
// =============================================================================

// Outcome is how one request ended.
type Outcome int

const (
	// OutcomeAnswered rendered the service's answer.
	OutcomeAnswered Outcome = iota
	// OutcomeNoAnswer rendered the localized "no answer found" string.
	OutcomeNoAnswer
	// OutcomeFailed rendered the localized "error occurred" string.
	OutcomeFailed
	// OutcomeSuperseded rendered nothing; a newer question was pending.
	OutcomeSuperseded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnswered:
		return "answered"
	case OutcomeNoAnswer:
		return "no_answer"
	case OutcomeFailed:
		return "failed"
	case OutcomeSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// =============================================================================
// PENDING / RESULT
// =============================================================================

// Pending is one accepted submission awaiting its answer.
type Pending struct {
	Token       model.RequestToken
	Question    string
	IndexID     string
	SubmittedAt time.Time
}

// Result is what Fetch observed.
type Result struct {
	Response *answer.Response
	Err      error
	Elapsed  time.Duration
}

// =============================================================================
// SESSION
// =============================================================================

// Options configures a Session.
type Options struct {
	IndexID string
	Strings locale.Table
	Policy  StalePolicy
	Logger  *zerolog.Logger
}

// OptionsFromConfig derives session options from a loaded config: the
// locale table with [strings] overrides applied, the stale policy and the
// index id.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	policy, err := ParseStalePolicy(cfg.UI.StalePolicy)
	if err != nil {
		return Options{}, err
	}
	return Options{
		IndexID: cfg.Server.IndexID,
		Strings: locale.Lookup(cfg.UI.Locale).WithOverrides(cfg.Strings),
		Policy:  policy,
	}, nil
}

// Session is the interaction controller for one conversation.
//
// Submit and Resolve call the sink and must run wherever the sink expects
// to be driven (the Bubble Tea update loop, or the REPL goroutine). Fetch
// only touches the Answerer and may run on any goroutine.
type Session struct {
	sink     Sink
	answerer Answerer
	seq      *model.Sequencer
	logger   zerolog.Logger

	mu      sync.RWMutex
	indexID string
	strings locale.Table
	policy  StalePolicy
}

// New creates a session writing to sink and asking answerer.
func New(sink Sink, answerer Answerer, opts Options) *Session {
	if opts.IndexID == "" {
		opts.IndexID = answer.DefaultIndexID
	}
	if opts.Strings.NoAnswer == "" {
		opts.Strings = locale.Default()
	}
	logger := log.With().Str("component", "session").Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Session{
		sink:     sink,
		answerer: answerer,
		seq:      model.NewSequencer(),
		logger:   logger,
		indexID:  opts.IndexID,
		strings:  opts.Strings,
		policy:   opts.Policy,
	}
}

// Update swaps the index, strings and policy, e.g. after a config reload.
// Requests already in flight keep the index they were sent to.
func (s *Session) Update(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.IndexID != "" {
		s.indexID = opts.IndexID
	}
	if opts.Strings.NoAnswer != "" {
		s.strings = opts.Strings
	}
	s.policy = opts.Policy
}

// Strings returns the active locale table.
func (s *Session) Strings() locale.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strings
}

// Policy returns the active stale policy.
func (s *Session) Policy() StalePolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// IndexID returns the index new questions are sent to.
func (s *Session) IndexID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexID
}

// Submit accepts raw input. Blank input returns (nil, false) and touches
// nothing. Otherwise the trimmed question is echoed as a user message, the
// sink is scrolled, and a typing marker is shown for a fresh token.
//
// The caller clears its input field after a successful Submit and before
// dispatching Fetch.
func (s *Session) Submit(raw string) (*Pending, bool) {
	question := strings.TrimSpace(raw)
	if question == "" {
		return nil, false
	}

	tok := s.seq.Next()
	p := &Pending{
		Token:       tok,
		Question:    question,
		IndexID:     s.IndexID(),
		SubmittedAt: time.Now(),
	}

	s.sink.Append(model.NewUserMessage(question, tok))
	s.sink.ScrollToEnd()
	s.sink.ShowMarker(tok)
	s.sink.ScrollToEnd()

	s.logger.Debug().
		Str("request_id", tok.ID).
		Uint64("seq", tok.Seq).
		Str("index_id", p.IndexID).
		Int("question_runes", len([]rune(question))).
		Msg("question submitted")

	return p, true
}

// Fetch performs the round-trip for p. It never touches the sink.
func (s *Session) Fetch(ctx context.Context, p *Pending) Result {
	start := time.Now()
	ctx = answer.WithRequestID(ctx, p.Token.ID)

	resp, err := s.answerer.Answer(ctx, p.IndexID, p.Question)
	if err == nil && resp == nil {
		err = errors.New("answerer returned no response")
	}
	return Result{Response: resp, Err: err, Elapsed: time.Since(start)}
}

// Resolve finishes p. The marker for p's token is always removed first;
// then exactly one bot message is rendered, unless the stale policy drops
// the answer.
func (s *Session) Resolve(p *Pending, r Result) Outcome {
	s.sink.RemoveMarker(p.Token)

	strs := s.Strings()
	event := s.logger.Debug()

	if s.Policy() == StaleLatestWins && p.Token.Seq < s.seq.Latest() {
		s.sink.ScrollToEnd()
		s.logger.Debug().
			Str("request_id", p.Token.ID).
			Uint64("seq", p.Token.Seq).
			Uint64("latest_seq", s.seq.Latest()).
			Msg("answer superseded")
		return OutcomeSuperseded
	}

	var outcome Outcome
	var text string

	switch {
	case r.Err != nil:
		outcome, text = OutcomeFailed, strs.Error
		event = s.logger.Error().Err(r.Err)
		var ce *answer.ClientError
		if errors.As(r.Err, &ce) {
			event = event.Str("error_type", ce.Type.String())
			if ce.StatusCode != 0 {
				event = event.Int("status", ce.StatusCode)
			}
		}
	case r.Response.Succeeded() && r.Response.HasAnswer:
		outcome, text = OutcomeAnswered, r.Response.Answer
	default:
		outcome, text = OutcomeNoAnswer, strs.NoAnswer
		if r.Response != nil {
			event = event.Str("signal", r.Response.Signal)
		}
	}

	s.sink.Append(model.NewBotMessage(text, p.Token))
	s.sink.ScrollToEnd()

	event.
		Str("request_id", p.Token.ID).
		Uint64("seq", p.Token.Seq).
		Str("index_id", p.IndexID).
		Dur("elapsed", r.Elapsed).
		Str("outcome", outcome.String()).
		Msg("request resolved")

	return outcome
}

// Run is Fetch followed by Resolve.
func (s *Session) Run(ctx context.Context, p *Pending) Outcome {
	return s.Resolve(p, s.Fetch(ctx, p))
}

// Ask submits raw and blocks until it resolves. ok is false for blank input.
func (s *Session) Ask(ctx context.Context, raw string) (outcome Outcome, ok bool) {
	p, ok := s.Submit(raw)
	if !ok {
		return 0, false
	}
	return s.Run(ctx, p), true
}
