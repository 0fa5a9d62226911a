// Package advisor asks an external LLM to pick one stone from the ranked
// candidates and checks the answer against the candidate set.
//
// The LLM is untrusted: its pick is accepted only when it names a shown
// candidate exactly, and pricing is always re-derived from the catalog.
// Every failure (no credential, transport error, unparseable or invalid
// answer) is logged and reported as "no suggestion" so the caller can fall
// back to the ranked list.
package advisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/stoneadvisor/advisor/internal/metrics"
	"github.com/stoneadvisor/advisor/internal/ranking"
)

// Outcome labels the result of one advisory attempt.
type Outcome string

const (
	OutcomeDisabled    Outcome = "disabled"
	OutcomeError       Outcome = "error"
	OutcomeUnparseable Outcome = "unparseable"
	OutcomeRejected    Outcome = "rejected"
	OutcomeAccepted    Outcome = "accepted"

	// OutcomeParsed is returned by Ask for a well-formed answer that has
	// not been validated yet. Recommend never reports it.
	OutcomeParsed Outcome = "parsed"
)

// Result is a validated suggestion with a catalog-derived price range.
type Result struct {
	RecommendedStone string `json:"recommended_stone"`
	FinishType       string `json:"finish_type"`
	Reason           string `json:"reason"`
	Warnings         string `json:"warnings"`
	PriceRange       string `json:"price_range"`
}

// Advisor wraps a Completer with the prompt, parse and validation steps.
type Advisor struct {
	client  Completer
	topN    int
	timeout time.Duration
}

// New creates an Advisor. A nil client disables it.
func New(client Completer, topN int, timeout time.Duration) *Advisor {
	if topN <= 0 {
		topN = 5
	}
	return &Advisor{client: client, topN: topN, timeout: timeout}
}

// Enabled reports whether a client is configured.
func (a *Advisor) Enabled() bool {
	return a != nil && a.client != nil
}

// Ask sends the top candidates and the utterance to the LLM. It returns nil
// without any network call when the advisor is disabled or there is
// nothing to choose from.
func (a *Advisor) Ask(ctx context.Context, text string, ranked []ranking.Scored) (*Suggestion, Outcome) {
	if !a.Enabled() {
		return nil, OutcomeDisabled
	}
	if len(ranked) == 0 {
		return nil, OutcomeRejected
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(text, ranking.Top(ranked, a.topN))

	start := time.Now()
	answer, err := a.client.Generate(ctx, prompt)
	metrics.AdvisorDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Warn("advisor: request failed, falling back", "error", err)
		return nil, OutcomeError
	}

	s, ok := ParseSuggestion(answer)
	if !ok {
		slog.Warn("advisor: unparseable answer, falling back", "answer_len", len(answer))
		return nil, OutcomeUnparseable
	}
	return s, OutcomeParsed
}

// Validate accepts s only if it names a candidate exactly. The price range
// comes from the first candidate with that name.
func Validate(s *Suggestion, candidates []ranking.Scored) (*Result, bool) {
	if s == nil || !s.HasStone || len(candidates) == 0 {
		return nil, false
	}
	match, ok := ranking.Find(candidates, s.RecommendedStone)
	if !ok {
		return nil, false
	}
	return &Result{
		RecommendedStone: match.Name,
		FinishType:       s.FinishType,
		Reason:           s.Reason,
		Warnings:         s.Warnings,
		PriceRange:       match.PriceRange(),
	}, true
}

// Recommend runs Ask then validates against the candidates that were
// actually shown to the LLM, and records the outcome.
func (a *Advisor) Recommend(ctx context.Context, text string, ranked []ranking.Scored) (*Result, Outcome) {
	s, outcome := a.Ask(ctx, text, ranked)
	if s == nil {
		metrics.AdvisorRequestsTotal.WithLabelValues(string(outcome)).Inc()
		return nil, outcome
	}

	res, ok := Validate(s, ranking.Top(ranked, a.topN))
	if !ok {
		slog.Info("advisor: suggestion not in candidate set, falling back",
			"suggested", s.RecommendedStone, "has_stone", s.HasStone)
		metrics.AdvisorRequestsTotal.WithLabelValues(string(OutcomeRejected)).Inc()
		return nil, OutcomeRejected
	}

	metrics.AdvisorRequestsTotal.WithLabelValues(string(OutcomeAccepted)).Inc()
	return res, OutcomeAccepted
}
