package advisor

import (
	"encoding/json"
	"regexp"
	"strings"
)

var objectSpan = regexp.MustCompile(`(?s)\{.*\}`)

// Suggestion is the advisor's raw, untrusted answer. HasStone is false when
// the recommended_stone key was absent.
type Suggestion struct {
	RecommendedStone string
	FinishType       string
	Reason           string
	Warnings         string
	HasStone         bool
}

// ExtractJSON parses text as a JSON object. If that fails it retries on the
// outermost {...} span, which tolerates answers wrapped in prose or code
// fences. It returns false when neither attempt yields an object.
func ExtractJSON(text string) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return obj, true
	}

	span := objectSpan.FindString(text)
	if span == "" {
		return nil, false
	}
	obj = nil
	if err := json.Unmarshal([]byte(span), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// ParseSuggestion runs ExtractJSON and maps the known fields.
func ParseSuggestion(text string) (*Suggestion, bool) {
	obj, ok := ExtractJSON(text)
	if !ok {
		return nil, false
	}
	s := &Suggestion{
		FinishType: stringField(obj["finish_type"]),
		Reason:     stringField(obj["reason"]),
		Warnings:   stringField(obj["warnings"]),
	}
	if raw, ok := obj["recommended_stone"]; ok {
		s.HasStone = true
		s.RecommendedStone = stringField(raw)
	}
	return s, true
}

// stringField returns JSON strings unquoted and any other value as its
// JSON text, so a numeric or list answer still compares as text.
func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err == nil {
		return strings.Join(items, ", ")
	}
	return string(raw)
}
