// Package fallback builds the deterministic answers used when the advisor
// yields nothing usable.
package fallback

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stoneadvisor/advisor/internal/catalog"
	"github.com/stoneadvisor/advisor/internal/ranking"
)

const (
	// DefaultTopN is how many ranked candidates the fallback lists.
	DefaultTopN = 3
	// MaxConfidence caps the displayed confidence percentage.
	MaxConfidence = 95.0

	unspecified = "ไม่ระบุ"
)

// Recommendation is one display-ready fallback entry.
type Recommendation struct {
	Name       string   `json:"stone_name"`
	ColorTone  string   `json:"color_tone"`
	BaseColor  string   `json:"base_color"`
	Pattern    string   `json:"pattern"`
	Styles     []string `json:"styles"`
	PriceRange string   `json:"price_range"`
	Confidence float64  `json:"confidence"`
	Score      float64  `json:"score"`
}

// CheapestPick is the catalog-wide cheapest entry offered when no candidate
// survived filtering.
type CheapestPick struct {
	Name       string  `json:"stone_name"`
	PriceMin   float64 `json:"price_min"`
	PriceMax   float64 `json:"price_max"`
	PriceRange string  `json:"price_range"`
	Shortfall  float64 `json:"shortfall"`
}

// Top turns the first n ranked candidates into recommendations.
func Top(ranked []ranking.Scored, n int) []Recommendation {
	top := ranking.Top(ranked, n)
	out := make([]Recommendation, 0, len(top))
	for _, s := range top {
		out = append(out, Recommendation{
			Name:       s.Name,
			ColorTone:  s.ColorTone,
			BaseColor:  Capitalize(s.BaseColor),
			Pattern:    Capitalize(s.PatternType),
			Styles:     StyleList(s.StyleTag),
			PriceRange: s.PriceRange(),
			Confidence: Confidence(s.Score),
			Score:      s.Score,
		})
	}
	return out
}

// Confidence is the score as a percentage rounded to one decimal, capped
// for display. The score itself is left untouched.
func Confidence(score float64) float64 {
	pct := math.Round(score*1000) / 10
	return math.Min(MaxConfidence, pct)
}

// Cheapest picks the lowest-priced entry of the whole catalog and how much
// the remembered budget falls short of it. A nil budget counts as zero.
func Cheapest(c *catalog.Catalog, budget *int) (*CheapestPick, bool) {
	e, ok := c.Cheapest()
	if !ok {
		return nil, false
	}
	b := 0.0
	if budget != nil {
		b = float64(*budget)
	}
	return &CheapestPick{
		Name:       e.Name,
		PriceMin:   e.PriceMin,
		PriceMax:   e.PriceMax,
		PriceRange: e.PriceRange(),
		Shortfall:  math.Max(0, e.PriceMin-b),
	}, true
}

// StyleList splits a pipe-delimited style tag into capitalized names.
func StyleList(tag string) []string {
	if strings.TrimSpace(tag) == "" {
		return []string{unspecified}
	}
	parts := strings.Split(tag, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, Capitalize(p))
		}
	}
	if len(out) == 0 {
		return []string{unspecified}
	}
	return out
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
