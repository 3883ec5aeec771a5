// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte("[server]\nindex_id = \"collection_1\"\n")

	if err := AtomicWriteFile(path, data, 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", content, data)
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".ragchat", "config.toml")

	if err := AtomicWriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := AtomicWriteFile(path, []byte("initial"), 0600); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0600); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("content = %q, want %q", content, "updated")
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".ragchat-tmp-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("hello", 10); got != "hello" {
		t.Errorf("TruncateWidth short = %q", got)
	}
	got := TruncateWidth("hello world", 8)
	if StringWidth(got) > 8 {
		t.Errorf("TruncateWidth result %q is wider than 8", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("TruncateWidth result %q should end in ellipsis", got)
	}
	if got := TruncateWidth("abc", 0); got != "" {
		t.Errorf("TruncateWidth zero = %q", got)
	}
}

func TestPadToWidth(t *testing.T) {
	if got := PadToWidth("ab", 5); got != "   ab" {
		t.Errorf("PadToWidth = %q, want %q", got, "   ab")
	}
	if got := PadToWidth("abcdef", 3); got != "abcdef" {
		t.Errorf("PadToWidth should not truncate, got %q", got)
	}
}

// =============================================================================
// SECURITY TESTS
// =============================================================================

func TestSanitizeText(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "من 9 صباحاً إلى 5 مساءً", "من 9 صباحاً إلى 5 مساءً"},
		{"sgr", "Normal\x1b[31mRed\x1b[0m", "NormalRed"},
		{"osc title", "a\x1b]0;pwned\x07b", "ab"},
		{"carriage return", "safe\rEVIL", "safeEVIL"},
		{"keeps newline and tab", "a\n\tb", "a\n\tb"},
		{"bell and nul", "x\x07y\x00z", "xyz"},
		{"markup is literal", "<b>bold</b>", "<b>bold</b>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeText(tc.input); got != tc.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
