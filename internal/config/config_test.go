// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points the config directory at a temp dir.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// =============================================================================
// DEFAULTS & VALIDATION
// =============================================================================

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()

	assert.Equal(t, "http://127.0.0.1:5000", cfg.Server.BaseURL)
	assert.Equal(t, "/api/v1/nlp/index/answer/", cfg.Server.AnswerPath)
	assert.Equal(t, "collection_1", cfg.Server.IndexID)
	assert.Equal(t, 5, cfg.Server.Limit)
	assert.Equal(t, 60*time.Second, cfg.Server.Timeout())
	assert.Equal(t, "ar", cfg.UI.Locale)
	assert.Equal(t, StaleRenderAll, cfg.UI.StalePolicy)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://host" }, "server.base_url"},
		{"no host", func(c *Config) { c.Server.BaseURL = "http://" }, "server.base_url"},
		{"unparseable url", func(c *Config) { c.Server.BaseURL = "http://[::1" }, "server.base_url"},
		{"empty index", func(c *Config) { c.Server.IndexID = "" }, "server.index_id"},
		{"slash in index", func(c *Config) { c.Server.IndexID = "a/b" }, "server.index_id"},
		{"zero limit", func(c *Config) { c.Server.Limit = 0 }, "server.limit"},
		{"huge limit", func(c *Config) { c.Server.Limit = 1000 }, "server.limit"},
		{"negative timeout", func(c *Config) { c.Server.TimeoutSecs = -1 }, "server.timeout_secs"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"bad stale policy", func(c *Config) { c.UI.StalePolicy = "newest" }, "ui.stale_policy"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			found := false
			for _, v := range verrs {
				if v.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want error on %s", err, tc.field)
			}
		})
	}
}

func TestConfig_ValidateAggregates(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "neon"
	cfg.Log.Level = "loud"

	var verrs ValidateErrors
	require.True(t, errors.As(cfg.Validate(), &verrs))
	assert.Len(t, verrs, 2)
	assert.Contains(t, verrs.Error(), "; ")
}

func TestConfig_SetDefaultsTrimsBaseURL(t *testing.T) {
	cfg := &Config{Server: ServerConfig{BaseURL: "http://h:1//"}}
	cfg.SetDefaults()
	assert.Equal(t, "http://h:1", cfg.Server.BaseURL)
	assert.Equal(t, "collection_1", cfg.Server.IndexID)
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	isolateHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "collection_1", cfg.Server.IndexID)
}

func TestLoad_TOML(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, ".ragchat", "config.toml"), `
[server]
base_url = "http://rag.internal:8080"
index_id = "collection_2"

[ui]
locale = "en"
stale_policy = "latest_wins"

[strings]
no_answer = "nothing here"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://rag.internal:8080", cfg.Server.BaseURL)
	assert.Equal(t, "collection_2", cfg.Server.IndexID)
	assert.Equal(t, 5, cfg.Server.Limit, "keys absent from the file keep defaults")
	assert.Equal(t, "en", cfg.UI.Locale)
	assert.Equal(t, StaleLatestWins, cfg.UI.StalePolicy)
	assert.Equal(t, "nothing here", cfg.Strings["no_answer"])
}

func TestLoad_JSONFallback(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, ".ragchat", "config.json"), `{"server":{"index_id":"from_json"}}`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_json", cfg.Server.IndexID)

	path, err := ActivePath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "config.json"))
}

func TestLoad_BrokenTOMLReturnsDefaultsAndError(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, ".ragchat", "config.toml"), "[server\nbase_url=")

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "collection_1", cfg.Server.IndexID)
}

func TestLoadFromPath_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, "[server]\nbase_ulr = \"http://typo\"\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.base_ulr")
}

func TestLoadFromPath_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, "[ui]\ntheme = \"neon\"\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.theme")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, ".ragchat", "config.toml"), "[server]\nindex_id = \"from_file\"\n")
	t.Setenv("RAGCHAT_INDEX_ID", "from_env")
	t.Setenv("RAGCHAT_LIMIT", "7")
	t.Setenv("RAGCHAT_SHOW_TIMESTAMPS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Server.IndexID)
	assert.Equal(t, 7, cfg.Server.Limit)
	assert.True(t, cfg.UI.ShowTimestamps)
}

func TestLoad_BadEnvValue(t *testing.T) {
	isolateHome(t)
	t.Setenv("RAGCHAT_LIMIT", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// Missing file is fine
	require.NoError(t, LoadDotEnv())

	writeFile(t, filepath.Join(dir, ".env"), "RAGCHAT_LOCALE=en\n")
	t.Setenv("RAGCHAT_LOCALE", "")
	os.Unsetenv("RAGCHAT_LOCALE")
	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "en", os.Getenv("RAGCHAT_LOCALE"))
}

// =============================================================================
// SAVE TESTS
// =============================================================================

func TestSaveTOML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Server.IndexID = "collection_3"
	cfg.Strings = map[string]string{"error": "boom"}

	require.NoError(t, SaveTOML(cfg, path))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "collection_3", loaded.Server.IndexID)
	assert.Equal(t, "boom", loaded.Strings["error"])
}

// =============================================================================
// GET/SET & CLONE
// =============================================================================

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("server.index_id")
	require.NoError(t, err)
	assert.Equal(t, "collection_1", v)

	require.NoError(t, cfg.Set("server.base_url", "http://other:1"))
	assert.Equal(t, "http://other:1", cfg.Server.BaseURL)

	require.NoError(t, cfg.Set("server.limit", "9"))
	assert.Equal(t, 9, cfg.Server.Limit)

	require.NoError(t, cfg.Set("ui.show-timestamps", "true"))
	assert.True(t, cfg.UI.ShowTimestamps)

	assert.Error(t, cfg.Set("server.limit", "nine"))
	assert.Error(t, cfg.Set("server.nope", "x"))
	_, err = cfg.Get("server")
	assert.Error(t, err)
	_, err = cfg.Get("")
	assert.Error(t, err)
}
