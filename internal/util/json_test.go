package util

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lamim/quillcoach/pkg/models"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("test fixture is not valid JSON: %v", err)
	}
	return m
}

func TestExtractObject_Decoded(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		object string
	}{
		{
			name:   "plain object",
			input:  `{"key": "value"}`,
			object: `{"key": "value"}`,
		},
		{
			name:   "prose around object",
			input:  "Here you go:\n{\"overview\": {\"genre\": \"Fiction\"}}\nHope that helps!",
			object: `{"overview": {"genre": "Fiction"}}`,
		},
		{
			name:   "markdown fence",
			input:  "```json\n{\"encouragement\": \"Keep going\", \"next_steps\": [\"cut adverbs\"]}\n```",
			object: `{"encouragement": "Keep going", "next_steps": ["cut adverbs"]}`,
		},
		{
			name:   "braces inside string values",
			input:  `Result: {"original": "she said {quietly}", "score": 70} done`,
			object: `{"original": "she said {quietly}", "score": 70}`,
		},
		{
			name:   "nested objects and arrays",
			input:  `{"craft_analysis": {"voice": {"score": 75, "feedback": "assured"}}, "memorable_lines": ["a", "b"]}`,
			object: `{"craft_analysis": {"voice": {"score": 75, "feedback": "assured"}}, "memorable_lines": ["a", "b"]}`,
		},
		{
			name:   "empty object",
			input:  `nothing to say {}`,
			object: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractObject(tt.input)
			if !got.IsDecoded() {
				t.Fatalf("ExtractObject() fell back (%s), want decoded", got.Reason())
			}
			if diff := cmp.Diff(decode(t, tt.object), got.Fields()); diff != "" {
				t.Errorf("ExtractObject() mismatch (-want +got):\n%s", diff)
			}
			if got.Raw() != "" {
				t.Errorf("decoded result should not carry raw text, got %q", got.Raw())
			}
		})
	}
}

func TestExtractObject_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason models.FallbackReason
	}{
		{
			name:   "no braces",
			input:  "Sorry, I can't produce structured output right now.",
			reason: models.FallbackNoObject,
		},
		{
			name:   "empty reply",
			input:  "",
			reason: models.FallbackNoObject,
		},
		{
			name:   "only opening brace",
			input:  `{"overview": {"genre": "Fiction"`,
			reason: models.FallbackNoObject,
		},
		{
			name:   "only closing brace",
			input:  `done }`,
			reason: models.FallbackNoObject,
		},
		{
			name:   "closing brace before opening brace",
			input:  `} then {`,
			reason: models.FallbackNoObject,
		},
		{
			name:   "two sibling objects",
			input:  `{"a": 1} and also {"b": 2}`,
			reason: models.FallbackMalformed,
		},
		{
			name:   "trailing comma",
			input:  `{"a": 1,}`,
			reason: models.FallbackMalformed,
		},
		{
			name:   "unescaped quote",
			input:  `{"line": "she said "no""}`,
			reason: models.FallbackMalformed,
		},
		{
			name:   "brace span that is not json",
			input:  `use {curly} braces`,
			reason: models.FallbackMalformed,
		},
		{
			name:   "top-level value inside braces is not an object",
			input:  `{ "a" }`,
			reason: models.FallbackMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractObject(tt.input)
			if got.IsDecoded() {
				t.Fatalf("ExtractObject() decoded %v, want fallback", got.Fields())
			}
			if got.Raw() != tt.input {
				t.Errorf("Raw() = %q, want the full reply %q", got.Raw(), tt.input)
			}
			if got.Reason() != tt.reason {
				t.Errorf("Reason() = %q, want %q", got.Reason(), tt.reason)
			}
			want := map[string]any{models.RawResponseKey: tt.input}
			if diff := cmp.Diff(want, got.AsMap()); diff != "" {
				t.Errorf("AsMap() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractObject_Idempotent(t *testing.T) {
	inputs := []string{
		"Here you go:\n{\"overview\": {\"genre\": \"Fiction\"}}\nHope that helps!",
		"Sorry, I can't produce structured output right now.",
		`{"a": 1} and also {"b": 2}`,
	}

	for _, in := range inputs {
		before := strings.Clone(in)
		first := ExtractObject(in)
		second := ExtractObject(in)

		if in != before {
			t.Fatalf("input was modified")
		}
		if diff := cmp.Diff(first.AsMap(), second.AsMap()); diff != "" {
			t.Errorf("repeated extraction differs (-first +second):\n%s", diff)
		}
		if first.Reason() != second.Reason() {
			t.Errorf("repeated extraction reason differs: %q vs %q", first.Reason(), second.Reason())
		}
	}
}

func TestObjectSpan(t *testing.T) {
	tests := []struct {
		input      string
		start, end int
		ok         bool
	}{
		{`{}`, 0, 1, true},
		{`ab{c}d`, 2, 4, true},
		{`{a}{b}`, 0, 5, true},
		{`}{`, -1, -1, false},
		{`no braces`, -1, -1, false},
	}

	for _, tt := range tests {
		start, end, ok := ObjectSpan(tt.input)
		if start != tt.start || end != tt.end || ok != tt.ok {
			t.Errorf("ObjectSpan(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.input, start, end, ok, tt.start, tt.end, tt.ok)
		}
	}
}
