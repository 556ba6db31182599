package extract

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		required []string
		wantKey  string
		wantKind Kind
	}{
		{
			name:    "plain object",
			input:   `{"a":1}`,
			wantKey: "a",
		},
		{
			name:    "reasoning preamble",
			input:   `<think>reasoning</think>{"a":1}`,
			wantKey: "a",
		},
		{
			name:    "reasoning block mid text",
			input:   "Sure! <thinking>hmm {not json}</thinking> Here you go: {\"a\":1}",
			wantKey: "a",
		},
		{
			name:    "orphan closing marker",
			input:   "leftover chain of thought</think>{\"a\":1}",
			wantKey: "a",
		},
		{
			name:    "markdown fence",
			input:   "```json\n{\"a\":1}\n```",
			wantKey: "a",
		},
		{
			name:    "trailing commentary",
			input:   `{"a":1} hope that helps!`,
			wantKey: "a",
		},
		{
			name:    "closing brace inside string",
			input:   `{"a":"}"}`,
			wantKey: "a",
		},
		{
			name:    "escaped quote inside string",
			input:   `{"a":"he said \"}\" loudly"}`,
			wantKey: "a",
		},
		{
			name:    "nested objects",
			input:   `{"a":{"b":{"c":1}},"d":2}`,
			wantKey: "d",
		},
		{
			name:     "no json at all",
			input:    "I cannot help with that.",
			wantKind: KindNoJSONFound,
		},
		{
			name:     "empty input",
			input:    "",
			wantKind: KindNoJSONFound,
		},
		{
			name:     "truncated object",
			input:    `{"a":1`,
			wantKind: KindUnmatchedBraces,
		},
		{
			name:     "truncated inside string",
			input:    `{"a":"never ends`,
			wantKind: KindUnmatchedBraces,
		},
		{
			name:     "balanced but unparseable",
			input:    `{a: oops}`,
			wantKind: KindInvalidShape,
		},
		{
			name:     "missing required keys",
			input:    `{"unrelated":true}`,
			required: []string{"mappings", "summary"},
			wantKind: KindInvalidShape,
		},
		{
			name:     "required keys present",
			input:    `{"mappings":[],"summary":"ok"}`,
			required: []string{"mappings", "summary"},
			wantKey:  "mappings",
		},
		{
			name:     "required keys one level down",
			input:    `{"result":{"mappings":[],"summary":"ok"}}`,
			required: []string{"mappings", "summary"},
			wantKey:  "mappings",
		},
		{
			name:     "required keys two levels down is too deep",
			input:    `{"outer":{"inner":{"mappings":[],"summary":"ok"}}}`,
			required: []string{"mappings", "summary"},
			wantKind: KindInvalidShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := Object(tt.input, tt.required...)

			if tt.wantKind != "" {
				if err == nil {
					t.Fatalf("expected %s failure, got %v", tt.wantKind, obj)
				}
				if !errors.Is(err, &Error{Kind: tt.wantKind}) {
					t.Errorf("wrong failure kind: %v, want %s", err, tt.wantKind)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := obj[tt.wantKey]; !ok {
				t.Errorf("extracted object missing key %q: %v", tt.wantKey, obj)
			}
		})
	}
}

func TestObjectRoundTrip(t *testing.T) {
	obj, err := Object(`<think>reasoning</think>{"a":1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var a int
	if err := json.Unmarshal(obj["a"], &a); err != nil {
		t.Fatalf("failed to decode value: %v", err)
	}
	if a != 1 {
		t.Errorf("a = %d, want 1", a)
	}
}

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "paired block", input: "<think>x</think>rest", want: "rest"},
		{name: "multiple blocks", input: "<think>a</think>mid<think>b</think>end", want: "midend"},
		{name: "unclosed opener drops tail", input: "head<think>never closed", want: "head"},
		{name: "orphan closer drops head", input: "lost opener</think>tail", want: "tail"},
		{name: "no markers", input: "untouched", want: "untouched"},
		{name: "mixed tag families", input: "<reasoning>a</reasoning><think>b</think>out", want: "out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripReasoning(tt.input); got != tt.want {
				t.Errorf("stripReasoning(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
