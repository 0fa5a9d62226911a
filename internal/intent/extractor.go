// Package intent turns a free-text request into structured signals using
// fixed, priority-ordered keyword tables.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// budgetPattern matches a currency cue followed by a numeral group with
// optional thousands separators.
var budgetPattern = regexp.MustCompile(`(?i)(?:งบ(?:ประมาณ)?|budget|฿)\s*:?\s*(\d[\d,]*)`)

// Signals are the per-turn preferences found in one utterance. Zero
// values mean the signal was not mentioned.
type Signals struct {
	Budget  *int
	Color   Color
	Pattern Pattern
	Style   Style
}

// PatternIntent holds the refinement fields of Signals.
type PatternIntent struct {
	Color   Color   `json:"color,omitempty"`
	Pattern Pattern `json:"pattern,omitempty"`
	Style   Style   `json:"style,omitempty"`
}

// Extract reads every signal from text.
func Extract(text string) Signals {
	s := Signals{}
	if b, ok := ExtractBudget(text); ok {
		s.Budget = &b
	}
	pi := ExtractPatternIntent(text)
	s.Color, s.Pattern, s.Style = pi.Color, pi.Pattern, pi.Style
	return s
}

// ExtractBudget returns the first budget amount in text with separators
// removed.
func ExtractBudget(text string) (int, bool) {
	m := budgetPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractPatternIntent resolves colour, pattern and style independently.
func ExtractPatternIntent(text string) PatternIntent {
	t := Normalize(text)
	color, _ := FirstMatch(t, ColorTriggers)
	pattern, _ := FirstMatch(t, PatternTriggers)
	style, _ := FirstMatch(t, StyleTriggers)
	return PatternIntent{Color: color, Pattern: pattern, Style: style}
}

// DetectPlacement returns the requested indoor/outdoor placement, if any.
func DetectPlacement(text string) (Placement, bool) {
	return FirstMatch(Normalize(text), PlacementTriggers)
}

// DetectSurface returns the requested usage surface, if any.
func DetectSurface(text string) (Surface, bool) {
	return FirstMatch(Normalize(text), SurfaceTriggers)
}

// DetectStyles returns every style mentioned in text, in table order.
func DetectStyles(text string) []Style {
	return AllMatches(Normalize(text), FilterStyleTriggers)
}

// Mentions reports whether any keyword mapped to v appears in text.
func Mentions[T ~string](text string, triggers []Trigger[T], v T) bool {
	t := Normalize(text)
	for _, tr := range triggers {
		if tr.Value == v && containsAny(t, tr.Keywords) {
			return true
		}
	}
	return false
}

// Normalize lower-cases text for keyword matching.
func Normalize(text string) string {
	return strings.ToLower(text)
}

// FirstMatch returns the value of the first trigger whose keyword occurs
// in the already normalized text.
func FirstMatch[T ~string](text string, triggers []Trigger[T]) (T, bool) {
	for _, tr := range triggers {
		if containsAny(text, tr.Keywords) {
			return tr.Value, true
		}
	}
	var zero T
	return zero, false
}

// AllMatches returns the value of every trigger that matches.
func AllMatches[T ~string](text string, triggers []Trigger[T]) []T {
	var out []T
	for _, tr := range triggers {
		if containsAny(text, tr.Keywords) {
			out = append(out, tr.Value)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
