package llm

import (
	"encoding/json"
	"strings"

	"github.com/logosreach/pathway-engine/pkg/apperrors"
)

// ExtractJSON pulls a JSON object out of free-form model output. Generative
// models do not reliably emit pure JSON, so extraction runs in tiers:
//
//  1. strip a surrounding markdown code fence (with or without a language tag)
//  2. try a direct parse of the remainder
//  3. try the substring between the first '{' and the last '}'
//
// Failure of all tiers returns a MalformedResponseError carrying the decode
// error from the direct-parse tier.
func ExtractJSON(response string) (json.RawMessage, error) {
	content := stripCodeFence(strings.TrimSpace(response))

	var direct json.RawMessage
	directErr := json.Unmarshal([]byte(content), &direct)
	if directErr == nil {
		return direct, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		candidate := content[start : end+1]
		var embedded json.RawMessage
		if err := json.Unmarshal([]byte(candidate), &embedded); err == nil {
			return embedded, nil
		}
	}

	return nil, apperrors.NewMalformedResponse("no JSON object in model output", directErr)
}

// stripCodeFence removes a leading ``` marker (optionally tagged, e.g.
// ```json) and a trailing ``` marker if present.
func stripCodeFence(content string) string {
	if strings.HasPrefix(content, "```") {
		content = content[3:]
		// Drop the language tag up to the first newline
		if idx := strings.IndexByte(content, '\n'); idx >= 0 && isFenceTag(content[:idx]) {
			content = content[idx+1:]
		}
	}
	if strings.HasSuffix(strings.TrimSpace(content), "```") {
		trimmed := strings.TrimSpace(content)
		content = trimmed[:len(trimmed)-3]
	}
	return strings.TrimSpace(content)
}

// isFenceTag reports whether s looks like a fence language tag ("json",
// "JSON", "" with trailing spaces) rather than payload content.
func isFenceTag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// ParseJSONResponse extracts JSON from model output and unmarshals it into T.
func ParseJSONResponse[T any](response string) (T, error) {
	var result T

	raw, err := ExtractJSON(response)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, apperrors.NewMalformedResponse("payload shape mismatch", err)
	}

	return result, nil
}
