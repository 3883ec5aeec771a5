// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSetup_FileGetsJSON(t *testing.T) {
	restoreLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "ragchat.log")

	closer, err := Setup(Options{Level: "debug", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	Component("session").Debug().Str("request_id", "abc").Msg("request sent")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "abc", entry["request_id"])
	assert.Equal(t, "request sent", entry["message"])
}

func TestSetup_ConsoleAndLevel(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer

	_, err := Setup(Options{Level: "warn", Console: true, Stderr: &buf})
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown"))
}

func TestSetup_InvalidLevel(t *testing.T) {
	restoreLogger(t)
	closer, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)
	assert.NotNil(t, closer)
}
