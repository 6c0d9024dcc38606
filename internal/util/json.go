package util

import (
	"encoding/json"
	"strings"

	"github.com/lamim/quillcoach/pkg/models"
)

// ObjectSpan returns the span from the first '{' to the last '}' in s.
// ok is false when there is no opening brace or the last closing brace
// does not come after it.
func ObjectSpan(s string) (start, end int, ok bool) {
	start = strings.IndexByte(s, '{')
	if start == -1 {
		return -1, -1, false
	}
	end = strings.LastIndexByte(s, '}')
	if end <= start {
		return -1, -1, false
	}
	return start, end, true
}

// ExtractObject recovers a JSON object from a model reply that may carry
// prose, code fences or other text around it. Exactly one decode attempt is
// made on the first-'{' to last-'}' span; anything that does not decode as a
// single object becomes a raw fallback holding the untouched reply.
func ExtractObject(reply string) models.ParsedResult {
	start, end, ok := ObjectSpan(reply)
	if !ok {
		return models.RawFallback(reply, models.FallbackNoObject)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(reply[start:end+1]), &fields); err != nil {
		return models.RawFallback(reply, models.FallbackMalformed)
	}

	return models.Decoded(fields)
}
