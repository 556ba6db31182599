// Package extract recovers exactly one well-formed JSON object from noisy
// model output: reasoning preambles, markdown fences, trailing commentary and
// truncation are all tolerated or reported as a typed failure.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies an extraction failure.
type Kind string

const (
	// KindNoJSONFound means no opening brace was present at all.
	KindNoJSONFound Kind = "no_json_found"
	// KindUnmatchedBraces means an object opened but never closed.
	KindUnmatchedBraces Kind = "unmatched_braces"
	// KindInvalidShape means a balanced object parsed but lacked the
	// required keys at the top level and one level down.
	KindInvalidShape Kind = "invalid_shape"
)

// Error is a typed extraction failure.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction failed (%s): %s", e.Kind, e.Msg)
}

// Is makes errors.Is(err, &Error{Kind: ...}) match on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// reasoningTags are the paired marker blocks some models wrap their chain of
// thought in. Blocks are stripped wholesale, content included.
var reasoningTags = [][2]string{
	{"<think>", "</think>"},
	{"<thinking>", "</thinking>"},
	{"<reasoning>", "</reasoning>"},
	{"<reflection>", "</reflection>"},
}

// Object extracts the first balanced JSON object from text and verifies it
// carries every required key, unwrapping one level of nesting if the keys
// live on a child object instead.
//
// Only braces are balance-tracked; bracket balance inside arrays is
// deliberately ignored, so a top-level array value is not handled. Callers
// needing full JSON-aware slicing must not rely on this function.
func Object(text string, requiredKeys ...string) (map[string]json.RawMessage, error) {
	text = stripReasoning(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, &Error{Kind: KindNoJSONFound, Msg: "no opening brace in response"}
	}

	end, ok := scanBalanced(text, start)
	if !ok {
		return nil, &Error{Kind: KindUnmatchedBraces, Msg: "object never closes"}
	}

	candidate := text[start : end+1]
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &top); err != nil {
		return nil, &Error{Kind: KindInvalidShape, Msg: err.Error()}
	}

	if hasKeys(top, requiredKeys) {
		return top, nil
	}

	// The payload may be wrapped one level down, e.g. {"result": {...}}.
	for _, raw := range top {
		var child map[string]json.RawMessage
		if err := json.Unmarshal(raw, &child); err != nil {
			continue
		}
		if hasKeys(child, requiredKeys) {
			return child, nil
		}
	}

	return nil, &Error{
		Kind: KindInvalidShape,
		Msg:  fmt.Sprintf("object missing required keys %v", requiredKeys),
	}
}

// stripReasoning removes paired reasoning blocks anywhere in the text, then
// handles the truncated-opener case: a closing marker with no opener before
// it means the opener was lost upstream, so everything up to and including
// that marker is dropped.
func stripReasoning(text string) string {
	for _, tag := range reasoningTags {
		opener, closer := tag[0], tag[1]

		for {
			i := strings.Index(text, opener)
			if i < 0 {
				break
			}
			j := strings.Index(text[i+len(opener):], closer)
			if j < 0 {
				// Opened but never closed: drop the rest.
				text = text[:i]
				break
			}
			text = text[:i] + text[i+len(opener)+j+len(closer):]
		}

		// Orphan closing marker with no opener before it.
		if j := strings.Index(text, closer); j >= 0 {
			if k := strings.Index(text[:j], opener); k < 0 {
				text = text[j+len(closer):]
			}
		}
	}
	return text
}

// scanBalanced walks forward from the opening brace at start, tracking brace
// depth outside strings, string state and escapes. Returns the index of the
// matching close brace.
func scanBalanced(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escapeNext := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if escapeNext {
			escapeNext = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escapeNext = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return i, true
				}
			}
		}
	}

	return 0, false
}

func hasKeys(obj map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return false
		}
	}
	return true
}
