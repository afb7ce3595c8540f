// Package extract pulls human-readable text out of arbitrarily nested
// backend response payloads.
//
// Payloads are treated as decoded-JSON values (nil, bool, float64, string,
// []any, map[string]any). Typed SDK values are normalised into that union
// with a JSON round-trip before being walked, so the extractor never needs
// reflection over provider structs.
package extract

import (
	"encoding/json"
	"sort"
	"strings"
)

// textKeyTokens mark object keys whose values are considered text-bearing.
var textKeyTokens = []string{"text", "message", "content", "response", "paragraph"}

// ignoreKeys are structural metadata, never content.
var ignoreKeys = map[string]struct{}{
	"id":            {},
	"model":         {},
	"type":          {},
	"role":          {},
	"index":         {},
	"finish_reason": {},
	"created":       {},
	"usage":         {},
	"provider":      {},
}

// coerceAttributes are probed, in order, when the structural walk finds
// nothing on a non-string, non-mapping payload.
var coerceAttributes = []string{"output_text", "text", "message", "response", "value"}

// Fragments walks payload and returns the text fragments that, concatenated,
// form the most plausible human-readable answer. It never fails and always
// terminates: response payloads are tree-shaped.
func Fragments(payload any) []string {
	return fragments(payload, "")
}

// fragments carries a key hint top-down. The empty hint means "no hint":
// object keys in provider payloads are never empty, so the sentinel is
// unambiguous.
func fragments(payload any, keyHint string) []string {
	switch v := payload.(type) {
	case nil:
		return nil
	case string:
		if keyHint == "" || isTextKey(keyHint) {
			return []string{v}
		}
		// A string under a non-text key is a role, id, or similar.
		return nil
	case map[string]any:
		var out []string
		inlineText, hasInline := v["text"].(string)
		if hasInline {
			out = append(out, inlineText)
		}
		for _, key := range sortedKeys(v) {
			if _, skip := ignoreKeys[key]; skip {
				continue
			}
			if key == "text" && hasInline {
				continue // already collected
			}
			nextHint := keyHint
			if isTextKey(key) {
				nextHint = strings.ToLower(key)
			}
			out = append(out, fragments(v[key], nextHint)...)
		}
		return out
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, fragments(item, keyHint)...)
		}
		return out
	case bool, float64, int, int64, json.Number:
		return nil
	default:
		// Typed SDK value: normalise into the JSON union and walk that.
		if u, ok := normalize(v); ok {
			return fragments(u, keyHint)
		}
		return nil
	}
}

// Coerce produces one trimmed string from a payload that may not respond to
// the structural walk, probing conventional field names as a last resort.
func Coerce(payload any) string {
	switch v := payload.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		return strings.TrimSpace(strings.Join(Fragments(v), ""))
	}

	u, ok := normalize(payload)
	if !ok {
		return ""
	}
	if s, isStr := u.(string); isStr {
		return strings.TrimSpace(s)
	}
	obj, isObj := u.(map[string]any)
	if !isObj {
		return ""
	}
	for _, attr := range coerceAttributes {
		value, present := obj[attr]
		if !present {
			continue
		}
		if extracted := Fragments(value); len(extracted) > 0 {
			return strings.TrimSpace(strings.Join(extracted, ""))
		}
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// normalize converts an arbitrary Go value into the decoded-JSON union.
// Values json cannot marshal (channels, funcs, cycles) report ok=false.
func normalize(v any) (any, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var u any
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, false
	}
	switch u.(type) {
	case map[string]any, []any, string:
		return u, true
	}
	return nil, false
}

func isTextKey(key string) bool {
	lowered := strings.ToLower(key)
	for _, token := range textKeyTokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}

// sortedKeys makes the walk deterministic; decoded JSON objects carry no
// insertion order in Go.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
