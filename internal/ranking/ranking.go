// Package ranking scores filtered candidates with a fixed weighted sum.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/stoneadvisor/advisor/internal/catalog"
	"github.com/stoneadvisor/advisor/internal/intent"
)

const (
	BudgetWeight = 0.4
	StyleWeight  = 0.2
	StockWeight  = 0.2
)

// BonusStyles are the styles that earn a bonus when both the utterance and
// the candidate's style tag mention them.
var BonusStyles = []intent.Style{intent.StyleLuxury, intent.StyleMinimal}

// Scored is a candidate with its score breakdown. Score is not clamped and
// can exceed 1.
type Scored struct {
	catalog.Entry
	BudgetScore float64                   `json:"budget_score"`
	StyleBonus  map[intent.Style]float64 `json:"style_bonus,omitempty"`
	StockBonus  float64                   `json:"stock_bonus"`
	Score       float64                   `json:"score"`
}

// Rank scores every candidate and sorts by descending score. Ties keep
// the input order.
func Rank(candidates []catalog.Entry, budget *int, text string) []Scored {
	out := make([]Scored, len(candidates))
	if len(candidates) == 0 {
		return out
	}

	maxPrice := candidates[0].PriceMin
	for _, c := range candidates[1:] {
		maxPrice = math.Max(maxPrice, c.PriceMin)
	}

	var mentioned []intent.Style
	for _, s := range BonusStyles {
		if intent.Mentions(text, intent.FilterStyleTriggers, s) {
			mentioned = append(mentioned, s)
		}
	}

	for i, c := range candidates {
		s := Scored{Entry: c}

		if budget != nil {
			s.BudgetScore = BudgetScore(c.PriceMin, *budget, maxPrice)
			s.Score += s.BudgetScore * BudgetWeight
		}

		for _, style := range mentioned {
			if s.StyleBonus == nil {
				s.StyleBonus = make(map[intent.Style]float64, len(mentioned))
			}
			bonus := 0.0
			if strings.Contains(strings.ToLower(c.StyleTag), string(style)) {
				bonus = 1
			}
			s.StyleBonus[style] = bonus
			s.Score += bonus * StyleWeight
		}

		if c.StockStatus == catalog.StockInStock {
			s.StockBonus = 1
		}
		s.Score += s.StockBonus * StockWeight

		out[i] = s
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// BudgetScore is 1 - |price-budget| / (maxPrice+1), floored at 0.
func BudgetScore(price float64, budget int, maxPrice float64) float64 {
	v := 1 - math.Abs(price-float64(budget))/(maxPrice+1)
	return math.Max(0, v)
}

// Top returns at most n leading entries.
func Top(ranked []Scored, n int) []Scored {
	if n < len(ranked) {
		return ranked[:n]
	}
	return ranked
}

// Find returns the first ranked candidate called name.
func Find(ranked []Scored, name string) (Scored, bool) {
	for _, s := range ranked {
		if s.Name == name {
			return s, true
		}
	}
	return Scored{}, false
}
