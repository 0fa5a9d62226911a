package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoneadvisor/advisor/internal/catalog"
	"github.com/stoneadvisor/advisor/internal/intent"
)

func testEntries() []catalog.Entry {
	return []catalog.Entry{
		{Name: "Absolute Black", PriceMin: 1500, PriceMax: 2200, IndoorOutdoor: "indoor", PopularUse: "countertop|floor", StyleTag: "modern|luxury", BaseColor: "black", PatternType: "solid", StockStatus: catalog.StockInStock},
		{Name: "Black Galaxy", PriceMin: 1700, PriceMax: 2600, IndoorOutdoor: "indoor|outdoor", PopularUse: "countertop", StyleTag: "luxury", BaseColor: "black", PatternType: "speckled", StockStatus: catalog.StockInStock},
		{Name: "Nero Pre", PriceMin: 1200, PriceMax: 1900, IndoorOutdoor: "indoor", PopularUse: "countertop", StyleTag: "minimal", BaseColor: "black", PatternType: "solid", StockStatus: catalog.StockPreOrder},
		{Name: "Kashmir White", PriceMin: 2100, PriceMax: 3000, IndoorOutdoor: "indoor", PopularUse: "wall|countertop", StyleTag: "Minimal|Modern", BaseColor: "white", PatternType: "speckled", StockStatus: "low_stock"},
		{Name: "Tan Brown", PriceMin: 1300, PriceMax: 1800, IndoorOutdoor: "Outdoor", PopularUse: "floor", StyleTag: "luxury", BaseColor: "brown", PatternType: "veined", StockStatus: catalog.StockInStock},
		{Name: "Steel Grey", PriceMin: 900, PriceMax: 1400, IndoorOutdoor: "indoor", PopularUse: "", StyleTag: "", BaseColor: "gray", PatternType: "solid", StockStatus: catalog.StockInStock},
	}
}

func names(entries []catalog.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestSmartFilter_Budget(t *testing.T) {
	got := SmartFilter(testEntries(), "anything", intPtr(1500))
	assert.Equal(t, []string{"Absolute Black", "Tan Brown", "Steel Grey"}, names(got))
}

func TestSmartFilter_NoBudgetKeepsAllPrices(t *testing.T) {
	got := SmartFilter(testEntries(), "anything", nil)
	assert.Len(t, got, 5, "only the pre-order row is dropped")

	got = SmartFilter(testEntries(), "anything", intPtr(0))
	assert.Len(t, got, 5, "zero budget is treated as unknown")
}

func TestSmartFilter_Placement(t *testing.T) {
	got := SmartFilter(testEntries(), "outdoor patio", nil)
	assert.Equal(t, []string{"Black Galaxy", "Tan Brown"}, names(got))

	got = SmartFilter(testEntries(), "ลานนอกบ้าน", nil)
	assert.Equal(t, []string{"Black Galaxy", "Tan Brown"}, names(got))
}

func TestSmartFilter_SurfacePriority(t *testing.T) {
	got := SmartFilter(testEntries(), "kitchen and floor", nil)
	assert.Equal(t, []string{"Absolute Black", "Black Galaxy", "Kashmir White"}, names(got))

	got = SmartFilter(testEntries(), "floor", nil)
	assert.Equal(t, []string{"Absolute Black", "Tan Brown"}, names(got))

	got = SmartFilter(testEntries(), "wall", nil)
	assert.Equal(t, []string{"Kashmir White"}, names(got))
}

func TestSmartFilter_StylesComposeAsConjunction(t *testing.T) {
	got := SmartFilter(testEntries(), "modern luxury", nil)
	assert.Equal(t, []string{"Absolute Black"}, names(got))

	// minimal and luxury each match rows, but no row carries both
	got = SmartFilter(testEntries(), "minimal luxury", nil)
	assert.Empty(t, got)
}

func TestRefine(t *testing.T) {
	all := ExcludePreOrder(testEntries())

	got := Refine(all, intent.PatternIntent{Color: intent.ColorBlack})
	assert.Equal(t, []string{"Absolute Black", "Black Galaxy"}, names(got))

	got = Refine(all, intent.PatternIntent{Color: intent.ColorBlack, Pattern: intent.PatternSolid})
	assert.Equal(t, []string{"Absolute Black"}, names(got))

	got = Refine(all, intent.PatternIntent{Style: intent.StyleMinimal})
	assert.Equal(t, []string{"Kashmir White"}, names(got), "style match is a case-insensitive substring")

	got = Refine(all, intent.PatternIntent{})
	assert.Equal(t, names(all), names(got))
}

func TestRefine_ReappliesPreOrderExclusion(t *testing.T) {
	got := Refine(testEntries(), intent.PatternIntent{Color: intent.ColorBlack})
	assert.NotContains(t, names(got), "Nero Pre")
}

func TestCandidates_ScenarioA(t *testing.T) {
	got := Candidates(testEntries(), "budget 1800 kitchen plain black", intPtr(1800))
	require.Len(t, got, 1)
	assert.Equal(t, "Absolute Black", got[0].Name)
}

func TestCandidates_EmptyIsValid(t *testing.T) {
	got := Candidates(testEntries(), "wall", intPtr(100))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProperties_SubsetAndNoPreOrder(t *testing.T) {
	texts := []string{
		"", "kitchen", "outdoor floor luxury", "งบ 2,000 ครัว หินดำ เรียบ",
		"minimal modern", "wall white speckled", "ผนัง มินิมอล",
	}
	budgets := []*int{nil, intPtr(1000), intPtr(1800), intPtr(5000)}

	source := testEntries()
	inSource := make(map[string]catalog.Entry, len(source))
	for _, e := range source {
		inSource[e.Name] = e
	}

	for _, text := range texts {
		for _, b := range budgets {
			got := Candidates(source, text, b)
			for _, e := range got {
				orig, ok := inSource[e.Name]
				require.True(t, ok, "fabricated candidate %q", e.Name)
				assert.Equal(t, orig, e)
				assert.NotEqual(t, catalog.StockPreOrder, e.StockStatus)
			}
		}
	}
}

func TestExcludePreOrder_Idempotent(t *testing.T) {
	once := ExcludePreOrder(testEntries())
	twice := ExcludePreOrder(once)
	assert.Equal(t, once, twice)
}

func TestFilters_DoNotMutateInput(t *testing.T) {
	src := testEntries()
	before := names(src)
	_ = Candidates(src, "kitchen black", intPtr(1600))
	assert.Equal(t, before, names(src))
}
