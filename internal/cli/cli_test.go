// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/stubserver"
)

// =============================================================================
// HELPERS
// =============================================================================

type result struct {
	out    string
	errOut string
	err    error
}

// isolate points HOME at a temp dir so no real config or history is read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func startStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(stubserver.New(stubserver.Options{}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// run executes the CLI with stdin and args as a non-interactive session.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{in: strings.NewReader(stdin), out: &out, errOut: &errOut}
	err := a.run(context.Background(), args)
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

// =============================================================================
// LINE MODE
// =============================================================================

func TestChat_PipedConversation(t *testing.T) {
	isolate(t)
	srv := startStub(t)

	res := run(t, "who are you\n   \nwhat is the weather\n/quit\nnever sent\n",
		"chat", "--base-url", srv.URL, "--locale", "en")
	require.NoError(t, res.err)

	assert.Equal(t,
		"You: who are you\n"+
			"Assistant: I am the institute's student assistant.\n"+
			"You: what is the weather\n"+
			"Assistant: Sorry, I could not find an answer to your question.\n",
		res.out)
}

func TestChat_LongPipedLineKeepsSession(t *testing.T) {
	isolate(t)
	srv := startStub(t)

	// Longer than the service accepts, so it gets the error string; the
	// next line still gets its own exchange.
	long := strings.Repeat("a", 70*1024)
	res := run(t, long+"\nwho are you", "chat", "--base-url", srv.URL, "--locale", "en")
	require.NoError(t, res.err)

	assert.Contains(t, res.out, "Assistant: Sorry, an error occurred while processing your request.\n")
	assert.True(t, strings.HasSuffix(res.out,
		"You: who are you\nAssistant: I am the institute's student assistant.\n"), "last exchange: %q", res.out[len(res.out)-120:])
}

func TestChat_RootFallsBackToLineMode(t *testing.T) {
	isolate(t)
	srv := startStub(t)

	res := run(t, "who are you\n", "--base-url", srv.URL, "--locale", "en")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Assistant: I am the institute's student assistant.")
}

func TestChat_UnreachableServiceShowsErrorString(t *testing.T) {
	isolate(t)
	srv := startStub(t)
	url := srv.URL
	srv.Close()

	res := run(t, "hello\n", "chat", "--base-url", url, "--locale", "en")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Assistant: Sorry, an error occurred while processing your request.")
}

func TestChat_ArabicRightAligned(t *testing.T) {
	isolate(t)
	srv := startStub(t)

	res := run(t, "من أنت\n", "chat", "--base-url", srv.URL)
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimRight(res.out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], " "), "user line should be padded: %q", lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "أنت: من أنت"))
	assert.Contains(t, lines[1], "المساعد: أنا مساعد")
}

func TestChat_HelpAndClear(t *testing.T) {
	isolate(t)
	srv := startStub(t)

	res := run(t, "/help\n/clear\n", "chat", "--base-url", srv.URL, "--locale", "en")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "## Help")
	assert.Contains(t, res.out, "/quit")
}

func TestLineSink_MarkersDrawnAndErased(t *testing.T) {
	var buf bytes.Buffer
	out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))
	sink := newLineSink(out, 40, true)

	tok := model.NewSequencer().Next()
	sink.Append(model.NewUserMessage("q", tok))
	sink.ShowMarker(tok)
	assert.Equal(t, 1, sink.drawn)
	assert.Contains(t, buf.String(), "...")

	sink.RemoveMarker(tok)
	assert.Equal(t, 0, sink.drawn)
	// Cursor up one line, then erase it.
	assert.Contains(t, buf.String(), "\x1b[1F")

	before := buf.Len()
	sink.RemoveMarker(tok)
	assert.Equal(t, before, buf.Len(), "removing an absent marker writes nothing")
}

func TestLineSink_NoMarkersWhenPiped(t *testing.T) {
	var buf bytes.Buffer
	out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))
	sink := newLineSink(out, 40, false)

	tok := model.NewSequencer().Next()
	sink.ShowMarker(tok)
	sink.RemoveMarker(tok)
	assert.Empty(t, buf.String())
}

func TestLineSink_StripsEscapes(t *testing.T) {
	var buf bytes.Buffer
	out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))
	sink := newLineSink(out, 40, false)

	sink.Append(model.NewBotMessage("\x1b[31mred\x1b[0m\rtext", model.RequestToken{}))
	assert.Equal(t, "المساعد: redtext\n", strings.TrimLeft(buf.String(), " "))
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk(t *testing.T) {
	isolate(t)
	srv := startStub(t)

	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantFail bool
	}{
		{
			name:    "answered",
			args:    []string{"ask", "who", "are", "you"},
			wantOut: "I am the institute's student assistant.\n",
		},
		{
			name:    "no answer",
			args:    []string{"ask", "something else"},
			wantOut: "Sorry, I could not find an answer to your question.\n",
		},
		{
			name:     "unknown index fails",
			args:     []string{"ask", "--index", "missing", "who are you"},
			wantOut:  "Sorry, an error occurred while processing your request.\n",
			wantFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--base-url", srv.URL, "--locale", "en"}, tt.args...)
			res := run(t, "", args...)
			assert.Equal(t, tt.wantOut, res.out)
			if tt.wantFail {
				assert.ErrorIs(t, res.err, errSilent)
			} else {
				assert.NoError(t, res.err)
			}
		})
	}
}

func TestRun_ClosesLogFileOnFailure(t *testing.T) {
	home := isolate(t)
	srv := startStub(t)
	logPath := filepath.Join(home, "ragchat.log")
	t.Setenv("RAGCHAT_LOG_FILE", logPath)
	t.Setenv("RAGCHAT_LOG_LEVEL", "debug")

	var out, errOut bytes.Buffer
	a := &app{in: strings.NewReader(""), out: &out, errOut: &errOut}
	err := a.run(context.Background(), []string{"--base-url", srv.URL, "ask", "--index", "missing", "who are you"})

	assert.ErrorIs(t, err, errSilent)
	assert.Nil(t, a.logClose, "log file left open")
	assert.FileExists(t, logPath)
}

func TestAsk_JSON(t *testing.T) {
	isolate(t)
	srv := startStub(t)

	res := run(t, "", "--base-url", srv.URL, "ask", "--json", "who are you")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "\"signal\": \"rag_answer_success\"")
	assert.NotContains(t, res.out, "\x1b[")
}

func TestAsk_RequiresQuestion(t *testing.T) {
	isolate(t)
	res := run(t, "", "ask", "   ")
	assert.EqualError(t, res.err, "question is empty")
}

// =============================================================================
// STATUS
// =============================================================================

func TestStatus(t *testing.T) {
	isolate(t)
	srv := startStub(t)

	res := run(t, "", "--base-url", srv.URL, "status")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, srv.URL+"/api/v1/nlp/index/answer/collection_1")
	assert.Contains(t, res.out, stubserver.AppName+" "+stubserver.Version)
}

func TestStatus_Unreachable(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := run(t, "", "--base-url", url, "status")
	assert.ErrorIs(t, res.err, errSilent)
	assert.Contains(t, res.out, "unreachable")
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_InitSetGet(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".ragchat", "config.toml")

	res := run(t, "", "config", "path")
	require.NoError(t, res.err)
	assert.Equal(t, path+"\n", res.out)

	res = run(t, "", "config", "init")
	require.NoError(t, res.err)
	assert.FileExists(t, path)

	res = run(t, "", "config", "init")
	assert.ErrorContains(t, res.err, "already exists")

	res = run(t, "", "config", "set", "server.index_id", "collection_9")
	require.NoError(t, res.err)
	res = run(t, "", "config", "set", "strings.no_answer", "nothing here")
	require.NoError(t, res.err)

	res = run(t, "", "config", "get", "server.index_id")
	require.NoError(t, res.err)
	assert.Equal(t, "collection_9\n", res.out)

	res = run(t, "", "config", "get", "strings.no_answer")
	require.NoError(t, res.err)
	assert.Equal(t, "nothing here\n", res.out)

	info, err := os.Stat(path)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestConfig_SetRejectsInvalid(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown field", "server.nope", "x"},
		{"bad int", "server.limit", "many"},
		{"fails validation", "ui.stale_policy", "sometimes"},
		{"unknown string key", "strings.greeting", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, "", "config", "set", tt.key, tt.val)
			assert.Error(t, res.err)
		})
	}
}

func TestConfig_ShowIncludesFlagOverrides(t *testing.T) {
	isolate(t)
	res := run(t, "", "--index", "collection_7", "config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, `index_id = "collection_7"`)
}

func TestConfig_Locales(t *testing.T) {
	isolate(t)
	res := run(t, "", "--locale", "en-GB", "config", "locales")
	require.NoError(t, res.err)
	assert.Equal(t, "  ar\n* en\n", res.out)
}

func TestConfig_BrokenFileStillUsable(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".ragchat")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[server\n"), 0600))

	res := run(t, "", "config", "init", "--force")
	require.NoError(t, res.err)

	res = run(t, "", "config", "get", "server.index_id")
	require.NoError(t, res.err)
	assert.Equal(t, "collection_1\n", res.out)
}

// =============================================================================
// ROOT / FLAGS
// =============================================================================

func TestFlags_OverrideEnvAndFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".ragchat")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[server]\nindex_id = \"from_file\"\n[ui]\nlocale = \"en\"\n"), 0600))
	t.Setenv("RAGCHAT_INDEX_ID", "from_env")

	res := run(t, "", "config", "get", "server.index_id")
	require.NoError(t, res.err)
	assert.Equal(t, "from_env\n", res.out)

	res = run(t, "", "--index", "from_flag", "config", "get", "server.index_id")
	require.NoError(t, res.err)
	assert.Equal(t, "from_flag\n", res.out)

	res = run(t, "", "config", "get", "ui.locale")
	require.NoError(t, res.err)
	assert.Equal(t, "en\n", res.out)
}

func TestFlags_InvalidValueFails(t *testing.T) {
	isolate(t)
	res := run(t, "", "--log-level", "loud", "version")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid settings")
}

func TestExplicitConfigMissingFails(t *testing.T) {
	home := isolate(t)
	res := run(t, "", "--config", filepath.Join(home, "nope.toml"), "version")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, os.ErrNotExist))
}

func TestVersion(t *testing.T) {
	isolate(t)
	res := run(t, "", "version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.out, "ragchat "+Version+"\n"))
}

func TestTUI_RequiresTerminal(t *testing.T) {
	isolate(t)
	res := run(t, "", "tui")
	var ttyErr *TTYRequiredError
	require.ErrorAs(t, res.err, &ttyErr)
}

func TestOverlayFlags_ReappliedOnReload(t *testing.T) {
	a := &app{
		flags:   globalFlags{indexID: "pinned", locale: "en"},
		changed: map[string]bool{"index": true, "locale": true},
	}
	cfg := config.Default()
	cfg.Server.IndexID = "from_reloaded_file"

	require.NoError(t, a.overlayFlags(cfg))
	assert.Equal(t, "pinned", cfg.Server.IndexID)
	assert.Equal(t, "en", cfg.UI.Locale)
}
