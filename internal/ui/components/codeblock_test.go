// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestPrettyJSON(t *testing.T) {
	got := PrettyJSON([]byte(`{"signal":"rag_answer_success","answer":"x"}`))
	want := "{\n  \"signal\": \"rag_answer_success\",\n  \"answer\": \"x\"\n}"
	if got != want {
		t.Errorf("PrettyJSON() = %q, want %q", got, want)
	}

	if got := PrettyJSON([]byte("not json")); got != "not json" {
		t.Errorf("PrettyJSON(invalid) = %q", got)
	}
}

func TestHighlightJSON(t *testing.T) {
	raw := []byte(`{"answer":"من 9 صباحاً"}`)

	plain := HighlightJSON(raw, false)
	if strings.Contains(plain, "\x1b[") {
		t.Errorf("uncolored output should have no escapes: %q", plain)
	}

	colored := HighlightJSON(raw, true)
	if !strings.Contains(colored, "\x1b[") {
		t.Errorf("colored output should contain escapes: %q", colored)
	}
	if strings.TrimRight(ansi.Strip(colored), "\n") != plain {
		t.Errorf("highlighting changed the text:\n%q\n%q", ansi.Strip(colored), plain)
	}
}
