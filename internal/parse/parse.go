// internal/parse/parse.go
package parse

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Models return JSON in three shapes: bare, fenced in a markdown code block,
// or embedded in prose. Decode tries each in order and reports whether a
// structured decode succeeded. It never returns an error — callers that need
// a result when decoding fails use the Partial* helpers instead.
func Decode(raw string, v any) bool {
	text := StripFence(raw)

	if json.Unmarshal([]byte(text), v) == nil {
		return true
	}

	if span := ExtractObject(text); span != "" {
		if json.Unmarshal([]byte(span), v) == nil {
			return true
		}
	}
	return false
}

// StripFence removes a markdown code block wrapper from model output.
// Models often fence JSON in ```json ... ``` even when told not to.
func StripFence(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// ExtractObject finds the outermost balanced {...} span in a string.
// It handles nested braces and skips braces inside quoted strings.
func ExtractObject(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

var scorePattern = regexp.MustCompile(`(?i)"?score"?\s*[:=]?\s*(\d+(?:\.\d+)?)`)

// PartialScore salvages a numeric score from unstructured text, e.g.
// `score: 7` or `"score" = 6.5`. Returns the fallback when nothing matches
// or the match is outside [0, 10].
func PartialScore(text string, fallback float64) float64 {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil || score < 0 || score > 10 {
		return fallback
	}
	return score
}

var percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// PartialPercent salvages a percentage from unstructured text ("85%").
// Returns the fallback when nothing in [0, 100] matches.
func PartialPercent(text string, fallback float64) float64 {
	m := percentPattern.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil || pct < 0 || pct > 100 {
		return fallback
	}
	return pct
}
