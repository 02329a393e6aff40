package util

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSONObject unmarshals v from a model completion that may wrap
// the JSON object in prose or a markdown code block. It tries the raw
// text first, then a fenced code block, then the first balanced brace
// span.
func ExtractJSONObject(text string, v interface{}) error {
	trimmed := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	if m := codeBlockRe.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(m[1]), v); err == nil {
			return nil
		}
	}

	if span := firstJSONObject(trimmed); span != "" {
		if err := json.Unmarshal([]byte(span), v); err == nil {
			return nil
		}
	}

	return errors.New("no valid JSON object found in model output")
}

// firstJSONObject returns the first balanced {...} span, tracking
// string literals so braces inside values do not break the count.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
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
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
