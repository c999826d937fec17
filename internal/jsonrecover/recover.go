// Package jsonrecover pulls a JSON object out of free-form model output.
package jsonrecover

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNoJSONObject means the text contained no opening or closing brace.
	ErrNoJSONObject = errors.New("no JSON object found in response")
	// ErrMalformedJSON means braces were present but nothing between them parsed as an object.
	ErrMalformedJSON = errors.New("response contains malformed JSON")
)

// Result is the outcome of a recovery attempt. Raw always holds the input text.
type Result struct {
	Object map[string]any
	Raw    string
	Err    error
}

// OK reports whether an object was recovered.
func (r Result) OK() bool {
	return r.Err == nil && r.Object != nil
}

// Recoverer turns model text into a JSON object.
type Recoverer func(text string) Result

// Recover tries, in order: the whole trimmed text, the greedy span from the
// first '{' to the last '}', and each brace-balanced candidate left to right.
func Recover(text string) Result {
	res := Result{Raw: text}

	trimmed := strings.TrimSpace(text)
	if obj, ok := parseObject(trimmed); ok {
		res.Object = obj
		return res
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < 0 {
		res.Err = ErrNoJSONObject
		return res
	}
	if end > start {
		if obj, ok := parseObject(trimmed[start : end+1]); ok {
			res.Object = obj
			return res
		}
	}

	for _, cand := range balancedCandidates(trimmed) {
		if obj, ok := parseObject(cand); ok {
			res.Object = obj
			return res
		}
	}

	res.Err = ErrMalformedJSON
	return res
}

// Preview returns at most n bytes of s for log lines, cut on a rune boundary.
func Preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func parseObject(s string) (map[string]any, bool) {
	if s == "" || s[0] != '{' {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	if obj == nil {
		return nil, false
	}
	return obj, true
}

// balancedCandidates returns every top-level {...} span whose braces balance,
// ignoring braces inside string literals.
func balancedCandidates(s string) []string {
	var out []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				out = append(out, s[start:i+1])
				start = -1
			}
		}
	}
	return out
}
