package intent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBudget(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"budget 1800 kitchen plain black", 1800, true},
		{"งบ 1,800 บาท", 1800, true},
		{"งบ1,250,000", 1250000, true},
		{"งบประมาณ 3,500", 3500, true},
		{"Budget: 2,000", 2000, true},
		{"ราคา ฿2,400 ได้ไหม", 2400, true},
		{"budget 1,800, kitchen", 1800, true},
		{"I want 1800 for a kitchen", 0, false},
		{"หินสีดำ", 0, false},
		{"budget , kitchen", 0, false},
		{"budget 99999999999999999999999", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractBudget(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractBudget_FirstCueWins(t *testing.T) {
	got, ok := ExtractBudget("งบ 1,000 หรือ budget 2,000")
	require.True(t, ok)
	assert.Equal(t, 1000, got)
}

func TestExtractPatternIntent(t *testing.T) {
	tests := []struct {
		text string
		want PatternIntent
	}{
		{"budget 1800 kitchen plain black", PatternIntent{Color: ColorBlack, Pattern: PatternSolid}},
		{"อยากได้หินสีขาว ลายเส้น แบบหรู", PatternIntent{Color: ColorWhite, Pattern: PatternVeined, Style: StyleLuxury}},
		{"สีเทา มีประกาย มินิมอล", PatternIntent{Color: ColorGray, Pattern: PatternSpeckled, Style: StyleMinimal}},
		{"Brown MODERN", PatternIntent{Color: ColorBrown, Style: StyleModern}},
		{"hello", PatternIntent{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPatternIntent(tt.text))
		})
	}
}

func TestExtractPatternIntent_PriorityWithinField(t *testing.T) {
	// white is listed before black, luxury before minimal
	got := ExtractPatternIntent("black or white, minimal or luxury")
	assert.Equal(t, ColorWhite, got.Color)
	assert.Equal(t, StyleLuxury, got.Style)
}

func TestExtract_CombinesSignals(t *testing.T) {
	s := Extract("budget 1800 kitchen plain black")
	require.NotNil(t, s.Budget)
	assert.Equal(t, 1800, *s.Budget)
	assert.Equal(t, ColorBlack, s.Color)
	assert.Equal(t, PatternSolid, s.Pattern)
	assert.Equal(t, Style(""), s.Style)

	assert.Nil(t, Extract("plain black").Budget)
}

func TestPatternIntent_JSONFieldsSnakeCase(t *testing.T) {
	b, err := json.Marshal(ExtractPatternIntent("plain black"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"color":"black","pattern":"solid"}`, string(b))

	b, err = json.Marshal(PatternIntent{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestDetectPlacement(t *testing.T) {
	p, ok := DetectPlacement("outdoor and indoor")
	require.True(t, ok)
	assert.Equal(t, PlacementOutdoor, p)

	p, ok = DetectPlacement("ใช้ภายในบ้าน")
	require.True(t, ok)
	assert.Equal(t, PlacementIndoor, p)

	_, ok = DetectPlacement("kitchen")
	assert.False(t, ok)
}

func TestDetectSurface(t *testing.T) {
	tests := []struct {
		text string
		want Surface
		ok   bool
	}{
		{"kitchen floor", SurfaceCountertop, true},
		{"ท็อปครัว", SurfaceCountertop, true},
		{"Floor and wall", SurfaceFloor, true},
		{"ผนังห้องน้ำ", SurfaceWall, true},
		{"something", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := DetectSurface(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectStyles_ReturnsEveryMatch(t *testing.T) {
	assert.Equal(t, []Style{StyleMinimal, StyleModern, StyleLuxury}, DetectStyles("luxury modern minimal"))
	assert.Equal(t, []Style{StyleLuxury}, DetectStyles("แบบหรู"))
	assert.Empty(t, DetectStyles("kitchen"))
}

func TestMentions(t *testing.T) {
	assert.True(t, Mentions("แบบหรูๆ", FilterStyleTriggers, StyleLuxury))
	assert.True(t, Mentions("MINIMAL", FilterStyleTriggers, StyleMinimal))
	assert.False(t, Mentions("modern", FilterStyleTriggers, StyleLuxury))
}
