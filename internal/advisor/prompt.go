package advisor

import (
	"encoding/json"
	"strings"

	"github.com/stoneadvisor/advisor/internal/ranking"
)

type promptStone struct {
	Name     string  `json:"stone_name"`
	PriceMin float64 `json:"price_min"`
	PriceMax float64 `json:"price_max"`
	StyleTag string  `json:"style_tag"`
}

const answerShape = `{
    "recommended_stone": "",
    "finish_type": "",
    "reason": "",
    "warnings": ""
}`

// BuildPrompt lists the shown candidates and asks for one of them by name
// in a fixed JSON shape.
func BuildPrompt(text string, shown []ranking.Scored) string {
	stones := make([]promptStone, 0, len(shown))
	for _, s := range shown {
		stones = append(stones, promptStone{
			Name:     s.Name,
			PriceMin: s.PriceMin,
			PriceMax: s.PriceMax,
			StyleTag: s.StyleTag,
		})
	}
	list, _ := json.Marshal(stones)

	var b strings.Builder
	b.WriteString("คุณคือผู้เชี่ยวชาญด้านหินแกรนิต\n")
	b.WriteString("เลือก stone_name ได้เฉพาะจากรายการที่ให้\n")
	b.WriteString("ตอบเป็น JSON เท่านั้น\n\n")
	b.WriteString("รายการ:\n")
	b.Write(list)
	b.WriteString("\n\nคำถาม:\n")
	b.WriteString(text)
	b.WriteString("\n\nตอบ:\n")
	b.WriteString(answerShape)
	b.WriteString("\n")
	return b.String()
}
