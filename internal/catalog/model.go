package catalog

import (
	"sort"
	"strconv"
)

// StockStatus is the availability of a stone product.
type StockStatus string

const (
	StockInStock  StockStatus = "in_stock"
	StockPreOrder StockStatus = "pre_order"
)

// Entry is one stone product row.
type Entry struct {
	Name          string      `json:"stone_name"`
	PriceMin      float64     `json:"price_min"`
	PriceMax      float64     `json:"price_max"`
	IndoorOutdoor string      `json:"indoor_outdoor"`
	PopularUse    string      `json:"popular_use"`
	StyleTag      string      `json:"style_tag"`
	BaseColor     string      `json:"base_color_en"`
	PatternType   string      `json:"pattern_type"`
	ColorTone     string      `json:"color_tone"`
	StockStatus   StockStatus `json:"stock_status"`
}

// PriceRange renders the entry's price bounds in baht per square metre.
func (e Entry) PriceRange() string {
	return FormatPrice(e.PriceMin) + " - " + FormatPrice(e.PriceMax) + " บาท/ตร.ม."
}

// FormatPrice prints whole prices without a decimal part.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Catalog is the read-only product list shared by every session.
type Catalog struct {
	entries []Entry
}

// New wraps entries in a Catalog. The slice is copied so later mutation
// by the caller cannot leak into running sessions.
func New(entries []Entry) *Catalog {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Catalog{entries: cp}
}

// Entries returns a copy of the catalog rows in load order.
func (c *Catalog) Entries() []Entry {
	cp := make([]Entry, len(c.entries))
	copy(cp, c.entries)
	return cp
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Cheapest returns the entry with the lowest minimum price. Ties keep load order.
func (c *Catalog) Cheapest() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	sorted := c.Entries()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PriceMin < sorted[j].PriceMin
	})
	return sorted[0], true
}
