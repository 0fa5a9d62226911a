package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stoneadvisor/advisor/internal/catalog"
)

// NoDataMessage is the reply when the catalog holds no entries at all.
const NoDataMessage = "ไม่พบข้อมูลในระบบ"

// Compose renders a turn as the markdown reply shown to the user.
func Compose(t Turn) string {
	switch t.Kind {
	case KindAdvisor:
		return composeAdvice(t)
	case KindRanked:
		return composeRanked(t)
	case KindCheapest:
		return composeCheapest(t)
	default:
		return NoDataMessage
	}
}

func composeAdvice(t Turn) string {
	a := t.Advice
	var b strings.Builder
	fmt.Fprintf(&b, "🪨 **ลายหรือสีหินแกรนิตที่แนะนำ:** %s\n\n", a.RecommendedStone)
	fmt.Fprintf(&b, "✨ **ผิวที่เหมาะสม:** %s\n\n", a.FinishType)
	fmt.Fprintf(&b, "💬 **เหตุผล:**  \n%s\n\n", a.Reason)
	fmt.Fprintf(&b, "⚠️ **ข้อควรระวัง:**  \n%s\n\n", a.Warnings)
	fmt.Fprintf(&b, "💰 **ราคาประมาณ:** %s\n", a.PriceRange)
	return b.String()
}

func composeRanked(t Turn) string {
	var b strings.Builder
	b.WriteString("## 🎨 ลายแกรนิตที่เหมาะกับคุณ\n")
	for _, r := range t.Recommendations {
		fmt.Fprintf(&b, "\n### 🎨 %s\n\n", r.Name)
		fmt.Fprintf(&b, "🖤 โทนสี: %s  \n", r.ColorTone)
		fmt.Fprintf(&b, "🌍 สีหลัก: %s  \n", r.BaseColor)
		fmt.Fprintf(&b, "🌀 ลักษณะลาย: %s  \n", r.Pattern)
		fmt.Fprintf(&b, "✨ สไตล์: %s  \n\n", strings.Join(r.Styles, ", "))
		fmt.Fprintf(&b, "💰 ราคา: %s\n", r.PriceRange)
		fmt.Fprintf(&b, "⭐ ความเหมาะสม: %s%%\n", strconv.FormatFloat(r.Confidence, 'f', 1, 64))
	}
	return b.String()
}

func composeCheapest(t Turn) string {
	c := t.Cheapest
	budget := "ไม่ระบุ"
	if t.Budget != nil {
		budget = strconv.Itoa(*t.Budget)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "❌ ไม่พบหินที่ตรงเงื่อนไขในงบประมาณ %s\n\n", budget)
	fmt.Fprintf(&b, "🪨 ตัวเลือกที่ใกล้เคียงที่สุด:\n**%s**\n\n", c.Name)
	fmt.Fprintf(&b, "💰 ราคา:\n%s\n\n", c.PriceRange)
	fmt.Fprintf(&b, "💡 แนะนำเพิ่มงบอีกประมาณ\n%s บาท\n", catalog.FormatPrice(c.Shortfall))
	return b.String()
}
