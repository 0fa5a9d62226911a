// Package filter narrows the catalog to the candidates for one turn.
//
// The coarse pass (SmartFilter) reacts to keywords in the raw utterance;
// the refinement pass (Refine) applies the extracted intent signals. Both
// drop pre-order stock. Neither pass fails: an empty result is a normal
// outcome that the caller routes to the cheapest-item fallback.
package filter

import (
	"strings"

	"github.com/stoneadvisor/advisor/internal/catalog"
	"github.com/stoneadvisor/advisor/internal/intent"
)

// SmartFilter applies, in order: budget ceiling, placement, usage surface,
// every detected style (as a conjunction) and the pre-order exclusion.
// A nil budget skips the ceiling.
func SmartFilter(entries []catalog.Entry, text string, budget *int) []catalog.Entry {
	out := entries

	if budget != nil && *budget > 0 {
		limit := float64(*budget)
		out = keep(out, func(e catalog.Entry) bool { return e.PriceMin <= limit })
	}

	if p, ok := intent.DetectPlacement(text); ok {
		out = keep(out, func(e catalog.Entry) bool { return containsFold(e.IndoorOutdoor, string(p)) })
	}

	if s, ok := intent.DetectSurface(text); ok {
		out = keep(out, func(e catalog.Entry) bool { return containsFold(e.PopularUse, string(s)) })
	}

	// Several styles compose as AND and can empty the set.
	for _, style := range intent.DetectStyles(text) {
		out = keep(out, func(e catalog.Entry) bool { return containsFold(e.StyleTag, string(style)) })
	}

	return ExcludePreOrder(out)
}

// Refine applies the non-empty intent fields: exact colour, exact pattern,
// style substring. Pre-order stock is dropped again.
func Refine(entries []catalog.Entry, pi intent.PatternIntent) []catalog.Entry {
	out := entries

	if pi.Color != "" {
		out = keep(out, func(e catalog.Entry) bool { return e.BaseColor == string(pi.Color) })
	}
	if pi.Pattern != "" {
		out = keep(out, func(e catalog.Entry) bool { return e.PatternType == string(pi.Pattern) })
	}
	if pi.Style != "" {
		out = keep(out, func(e catalog.Entry) bool { return containsFold(e.StyleTag, string(pi.Style)) })
	}

	return ExcludePreOrder(out)
}

// Candidates runs both passes.
func Candidates(entries []catalog.Entry, text string, budget *int) []catalog.Entry {
	return Refine(SmartFilter(entries, text, budget), intent.ExtractPatternIntent(text))
}

// ExcludePreOrder drops entries whose stock status is pre_order. It is
// idempotent.
func ExcludePreOrder(entries []catalog.Entry) []catalog.Entry {
	return keep(entries, func(e catalog.Entry) bool { return e.StockStatus != catalog.StockPreOrder })
}

// keep returns a new slice; the input is never modified.
func keep(entries []catalog.Entry, pred func(catalog.Entry) bool) []catalog.Entry {
	out := make([]catalog.Entry, 0, len(entries))
	for _, e := range entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
