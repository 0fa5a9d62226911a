// Package recommend runs one chat turn through the recommendation pipeline:
// intent extraction, budget memory, filtering, ranking, the advisory step
// and the deterministic fallbacks.
package recommend

import (
	"context"
	"log/slog"

	"github.com/stoneadvisor/advisor/internal/advisor"
	"github.com/stoneadvisor/advisor/internal/catalog"
	"github.com/stoneadvisor/advisor/internal/fallback"
	"github.com/stoneadvisor/advisor/internal/filter"
	"github.com/stoneadvisor/advisor/internal/intent"
	"github.com/stoneadvisor/advisor/internal/memory"
	"github.com/stoneadvisor/advisor/internal/metrics"
	"github.com/stoneadvisor/advisor/internal/ranking"
)

// Kind tells which path produced the answer.
type Kind string

const (
	KindAdvisor      Kind = "advisor"
	KindRanked       Kind = "ranked"
	KindCheapest     Kind = "cheapest"
	KindEmptyCatalog Kind = "empty_catalog"
)

// Turn is the structured outcome of one utterance. Exactly one of Advice,
// Recommendations or Cheapest is set, matching Kind; KindEmptyCatalog sets
// none.
type Turn struct {
	Kind            Kind                      `json:"kind"`
	Budget          *int                      `json:"budget,omitempty"`
	BudgetChanged   bool                      `json:"budget_changed"`
	Signals         intent.PatternIntent      `json:"signals"`
	CandidateCount  int                       `json:"candidate_count"`
	AdvisorOutcome  advisor.Outcome           `json:"advisor_outcome,omitempty"`
	Advice          *advisor.Result           `json:"advice,omitempty"`
	Recommendations []fallback.Recommendation `json:"recommendations,omitempty"`
	Cheapest        *fallback.CheapestPick    `json:"cheapest,omitempty"`
	Images          map[string]string         `json:"images,omitempty"`
}

// Stone returns the name of the headline stone, or "".
func (t Turn) Stone() string {
	switch {
	case t.Advice != nil:
		return t.Advice.RecommendedStone
	case len(t.Recommendations) > 0:
		return t.Recommendations[0].Name
	case t.Cheapest != nil:
		return t.Cheapest.Name
	}
	return ""
}

// Engine holds the read-only collaborators shared by every session.
type Engine struct {
	catalog *catalog.Catalog
	advisor *advisor.Advisor
	images  *catalog.ImageLocator
	topN    int
}

// NewEngine creates an Engine. advisor and images may be nil.
func NewEngine(c *catalog.Catalog, a *advisor.Advisor, images *catalog.ImageLocator) *Engine {
	return &Engine{catalog: c, advisor: a, images: images, topN: fallback.DefaultTopN}
}

// Recommend runs one turn. It updates state's budget when the utterance
// carries one and never fails: the worst case is the cheapest-item answer.
func (e *Engine) Recommend(ctx context.Context, state *memory.State, text string) Turn {
	signals := intent.Extract(text)
	changed := state.Remember(signals.Budget)
	budget := state.Budget

	turn := Turn{
		Budget:        budget,
		BudgetChanged: changed,
		Signals:       intent.PatternIntent{Color: signals.Color, Pattern: signals.Pattern, Style: signals.Style},
	}

	candidates := filter.Candidates(e.catalog.Entries(), text, budget)
	turn.CandidateCount = len(candidates)
	metrics.Candidates.Observe(float64(len(candidates)))

	if len(candidates) == 0 {
		e.noMatch(&turn, budget)
		metrics.TurnsTotal.WithLabelValues(string(turn.Kind)).Inc()
		return turn
	}

	ranked := ranking.Rank(candidates, budget, text)

	res, outcome := e.advisor.Recommend(ctx, text, ranked)
	turn.AdvisorOutcome = outcome
	if res != nil {
		turn.Kind = KindAdvisor
		turn.Advice = res
		e.attachImages(&turn, res.RecommendedStone)
	} else {
		turn.Kind = KindRanked
		turn.Recommendations = fallback.Top(ranked, e.topN)
		names := make([]string, 0, len(turn.Recommendations))
		for _, r := range turn.Recommendations {
			names = append(names, r.Name)
		}
		e.attachImages(&turn, names...)
	}

	slog.Debug("turn recommended",
		"kind", turn.Kind,
		"candidates", turn.CandidateCount,
		"advisor_outcome", outcome,
		"stone", turn.Stone(),
	)
	metrics.TurnsTotal.WithLabelValues(string(turn.Kind)).Inc()
	return turn
}

func (e *Engine) noMatch(turn *Turn, budget *int) {
	pick, ok := fallback.Cheapest(e.catalog, budget)
	if !ok {
		turn.Kind = KindEmptyCatalog
		return
	}
	turn.Kind = KindCheapest
	turn.Cheapest = pick
	e.attachImages(turn, pick.Name)
}

func (e *Engine) attachImages(turn *Turn, names ...string) {
	for _, n := range names {
		if p := e.images.Find(n); p != "" {
			if turn.Images == nil {
				turn.Images = make(map[string]string)
			}
			turn.Images[n] = p
		}
	}
}
