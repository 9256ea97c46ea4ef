package llm

import (
	"encoding/json"
	"strings"
)

// ExtractObject recovers a JSON object from an arbitrary model reply.
// Models wrap their JSON in markdown fences or surrounding prose more often
// than not, so recovery is heuristic, tried in a fixed order:
//
//  1. content of the first ```json fenced block
//  2. content of the first ``` fenced block of any tag
//  3. the (possibly fence-stripped) text parsed directly
//  4. brace-depth scan from the first '{' to its balancing '}'
//
// A false return means no object was found; that is an expected outcome for
// callers to degrade on, never an error.
func ExtractObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	if inner, ok := fencedBlock(text, "```json"); ok {
		text = inner
	} else if inner, ok := fencedBlock(text, "```"); ok {
		text = inner
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, true
	}

	if candidate := balancedObject(text); candidate != "" {
		obj = nil
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
			return obj, true
		}
	}
	return nil, false
}

// fencedBlock returns the content between the first opening fence and the
// next closing fence. An unterminated fence yields everything after it.
func fencedBlock(text, fence string) (string, bool) {
	start := strings.Index(text, fence)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(fence):]
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

// balancedObject finds the first '{' and walks to the brace that closes it.
// Braces inside string literals are counted too; that miscounts replies that
// quote a lone brace, a known limitation kept for parity with the scoring
// fallback behavior built on it.
func balancedObject(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
