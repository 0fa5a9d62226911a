package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoneadvisor/advisor/internal/catalog"
	"github.com/stoneadvisor/advisor/internal/ranking"
)

func TestConfidence(t *testing.T) {
	assert.Equal(t, 80.0, Confidence(0.8))
	assert.Equal(t, 31.1, Confidence(0.31107))
	assert.Equal(t, 95.0, Confidence(1.0), "display clamp")
	assert.Equal(t, 95.0, Confidence(1.4))
	assert.Equal(t, 0.0, Confidence(0))
}

func TestStyleList(t *testing.T) {
	assert.Equal(t, []string{"Modern", "Luxury"}, StyleList("modern|LUXURY"))
	assert.Equal(t, []string{"Minimal"}, StyleList(" minimal | "))
	assert.Equal(t, []string{"ไม่ระบุ"}, StyleList(""))
	assert.Equal(t, []string{"ไม่ระบุ"}, StyleList("|"))
}

func TestTop(t *testing.T) {
	ranked := []ranking.Scored{
		{Entry: catalog.Entry{Name: "A", PriceMin: 1500, PriceMax: 2200, BaseColor: "black", PatternType: "solid", StyleTag: "modern|luxury", ColorTone: "เข้ม"}, Score: 0.8},
		{Entry: catalog.Entry{Name: "B"}, Score: 0.5},
		{Entry: catalog.Entry{Name: "C"}, Score: 0.4},
		{Entry: catalog.Entry{Name: "D"}, Score: 0.3},
	}
	recs := Top(ranked, DefaultTopN)
	require.Len(t, recs, 3)
	assert.Equal(t, Recommendation{
		Name:       "A",
		ColorTone:  "เข้ม",
		BaseColor:  "Black",
		Pattern:    "Solid",
		Styles:     []string{"Modern", "Luxury"},
		PriceRange: "1500 - 2200 บาท/ตร.ม.",
		Confidence: 80,
		Score:      0.8,
	}, recs[0])
	assert.Equal(t, "C", recs[2].Name)

	assert.Len(t, Top(ranked[:1], DefaultTopN), 1)
	assert.Empty(t, Top(nil, DefaultTopN))
}

func TestCheapest(t *testing.T) {
	c := catalog.New([]catalog.Entry{
		{Name: "Mid", PriceMin: 2000, PriceMax: 3000},
		{Name: "Low", PriceMin: 1200, PriceMax: 1600},
	})

	budget := 1000
	pick, ok := Cheapest(c, &budget)
	require.True(t, ok)
	assert.Equal(t, "Low", pick.Name)
	assert.Equal(t, 200.0, pick.Shortfall)
	assert.Equal(t, "1200 - 1600 บาท/ตร.ม.", pick.PriceRange)

	budget = 5000
	pick, _ = Cheapest(c, &budget)
	assert.Equal(t, 0.0, pick.Shortfall, "never negative")

	pick, _ = Cheapest(c, nil)
	assert.Equal(t, 1200.0, pick.Shortfall, "unknown budget counts as zero")

	_, ok = Cheapest(catalog.New(nil), &budget)
	assert.False(t, ok)
}
