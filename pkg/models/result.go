package models

import "encoding/json"

// RawResponseKey is the key the legacy map view uses for undecoded replies
const RawResponseKey = "raw_response"

// FallbackReason explains why a reply was kept as raw text
type FallbackReason string

const (
	// FallbackNone is the reason of a decoded (or zero) result
	FallbackNone FallbackReason = ""
	// FallbackNoObject means the reply had no '{' ... '}' span
	FallbackNoObject FallbackReason = "no_object"
	// FallbackMalformed means the span existed but did not decode as an object
	FallbackMalformed FallbackReason = "malformed"
)

// ParsedResult is either a decoded JSON object or the raw reply text.
// Use IsDecoded to branch. The zero value is neither: it is what failed
// operations return alongside their error, and IsZero reports it.
type ParsedResult struct {
	fields  map[string]any
	raw     string
	reason  FallbackReason
	decoded bool
}

// Decoded wraps a successfully decoded object
func Decoded(fields map[string]any) ParsedResult {
	if fields == nil {
		fields = map[string]any{}
	}
	return ParsedResult{fields: fields, decoded: true}
}

// RawFallback wraps reply text that could not be decoded
func RawFallback(text string, reason FallbackReason) ParsedResult {
	if reason == FallbackNone {
		reason = FallbackMalformed
	}
	return ParsedResult{raw: text, reason: reason}
}

// IsDecoded reports whether the result holds a decoded object
func (r ParsedResult) IsDecoded() bool {
	return r.decoded
}

// IsZero reports whether r is neither decoded nor a fallback
func (r ParsedResult) IsZero() bool {
	return !r.decoded && r.reason == FallbackNone
}

// Clone returns a copy whose decoded object shares no maps or slices with r
func (r ParsedResult) Clone() ParsedResult {
	if r.decoded {
		r.fields = cloneMap(r.fields)
	}
	return r
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Fields returns the decoded object, or nil for a fallback
func (r ParsedResult) Fields() map[string]any {
	if !r.IsDecoded() {
		return nil
	}
	return r.fields
}

// Raw returns the undecoded reply text, or "" for a decoded result
func (r ParsedResult) Raw() string {
	return r.raw
}

// Reason returns why the reply fell back to raw text
func (r ParsedResult) Reason() FallbackReason {
	return r.reason
}

// AsMap returns the single-map view: the decoded object, or
// {"raw_response": text} for a fallback. The zero value has no view and
// returns nil.
func (r ParsedResult) AsMap() map[string]any {
	switch {
	case r.decoded:
		return r.fields
	case r.IsZero():
		return nil
	default:
		return map[string]any{RawResponseKey: r.raw}
	}
}

// MarshalJSON encodes the map view
func (r ParsedResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.AsMap())
}
