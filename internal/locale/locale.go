// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package locale holds the user-facing strings of the chat client.
//
// Arabic is the default table. Any tag the matcher cannot place falls back
// to it. Individual strings can be overridden from the [strings] section of
// the config file without touching the interaction logic.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Table is one complete set of user-facing strings.
type Table struct {
	Tag language.Tag

	// NoAnswer is rendered when the service replied without an answer.
	NoAnswer string
	// Error is rendered for transport failures, error statuses and bad bodies.
	Error string

	Placeholder string
	Typing      string
	Title       string
	You         string
	Bot         string
	Help        string
}

// RTL reports whether the table's script is written right to left.
func (t Table) RTL() bool {
	base, _ := t.Tag.Base()
	switch base.String() {
	case "ar", "fa", "he", "ur":
		return true
	}
	return false
}

// =============================================================================
// BUILT-IN TABLES
// =============================================================================

var arabic = Table{
	Tag:         language.Arabic,
	NoAnswer:    "عذراً، لم أتمكن من العثور على إجابة لسؤالك.",
	Error:       "عذراً، حدث خطأ أثناء معالجة طلبك.",
	Placeholder: "اكتب سؤالك هنا...",
	Typing:      "يكتب",
	Title:       "المساعد الذكي",
	You:         "أنت",
	Bot:         "المساعد",
	Help: `## المساعدة

- اكتب سؤالك واضغط **Enter** للإرسال
- **Esc** أو **Ctrl+C** للخروج
- **PgUp** / **PgDn** للتمرير
- **Ctrl+Y** لنسخ آخر إجابة
- **Ctrl+L** لمسح المحادثة
- **F1** لإظهار أو إخفاء المساعدة
`,
}

var english = Table{
	Tag:         language.English,
	NoAnswer:    "Sorry, I could not find an answer to your question.",
	Error:       "Sorry, an error occurred while processing your request.",
	Placeholder: "Type your question...",
	Typing:      "typing",
	Title:       "Assistant",
	You:         "You",
	Bot:         "Assistant",
	Help: `## Help

- Type a question and press **Enter** to send
- **Esc** or **Ctrl+C** to quit
- **PgUp** / **PgDn** to scroll
- **Ctrl+Y** to copy the last answer
- **Ctrl+L** to clear the conversation
- **F1** to show or hide this help
`,
}

// The first entry is the fallback.
var tables = []Table{arabic, english}

var matcher = language.NewMatcher(func() []language.Tag {
	tags := make([]language.Tag, len(tables))
	for i, t := range tables {
		tags[i] = t.Tag
	}
	return tags
}())

// Default returns the Arabic table.
func Default() Table {
	return arabic
}

// Supported returns the tags that have a built-in table.
func Supported() []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.Tag.String()
	}
	return out
}

// Lookup returns the table that best matches tag. Tags may be BCP-47
// ("ar-SA") or POSIX style ("en_US.UTF-8"). Unknown or malformed tags
// return the default table.
func Lookup(tag string) Table {
	tag = normalize(tag)
	if tag == "" {
		return Default()
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return Default()
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return Default()
	}
	return tables[idx]
}

// normalize strips a POSIX encoding suffix and converts underscores.
func normalize(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	if tag == "C" || tag == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(tag, "_", "-")
}

// =============================================================================
// OVERRIDES
// =============================================================================

// WithOverrides returns a copy of t with any non-empty value in overrides
// replacing the matching string. Keys are the snake_case field names used in
// the config file (no_answer, error, placeholder, typing, title, you, bot,
// help). Unknown keys are ignored.
func (t Table) WithOverrides(overrides map[string]string) Table {
	for key, val := range overrides {
		if val == "" {
			continue
		}
		switch strings.ToLower(key) {
		case "no_answer":
			t.NoAnswer = val
		case "error":
			t.Error = val
		case "placeholder":
			t.Placeholder = val
		case "typing":
			t.Typing = val
		case "title":
			t.Title = val
		case "you":
			t.You = val
		case "bot":
			t.Bot = val
		case "help":
			t.Help = val
		}
	}
	return t
}

// OverrideKeys lists the keys accepted by WithOverrides.
func OverrideKeys() []string {
	return []string{"no_answer", "error", "placeholder", "typing", "title", "you", "bot", "help"}
}
