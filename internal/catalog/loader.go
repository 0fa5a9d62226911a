package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidPrice  = errors.New("invalid price")
	ErrEmptyName     = errors.New("empty stone name")
)

// RequiredColumns lists the header names a catalog file must carry.
var RequiredColumns = []string{
	"stone_name",
	"price_min",
	"price_max",
	"indoor_outdoor",
	"popular_use",
	"style_tag",
	"base_color_en",
	"pattern_type",
	"color_tone",
	"stock_status",
}

// LoadFile opens path and parses it with LoadCSV.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()

	c, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	slog.Info("catalog loaded", "path", path, "entries", c.Len())
	return c, nil
}

// LoadCSV parses a header-driven catalog. Column order is free; extra
// columns are ignored. Duplicate names are kept and logged.
func LoadCSV(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		idx[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var entries []Entry
	seen := make(map[string]int)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}

		field := func(col string) string {
			i := idx[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		e, err := parseEntry(field)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if first, dup := seen[e.Name]; dup {
			slog.Warn("catalog: duplicate stone name, first row wins on lookup",
				"name", e.Name, "first_line", first, "line", line)
		} else {
			seen[e.Name] = line
		}
		entries = append(entries, e)
	}

	return New(entries), nil
}

func parseEntry(field func(string) string) (Entry, error) {
	e := Entry{
		Name:          field("stone_name"),
		IndoorOutdoor: field("indoor_outdoor"),
		PopularUse:    field("popular_use"),
		StyleTag:      field("style_tag"),
		BaseColor:     field("base_color_en"),
		PatternType:   field("pattern_type"),
		ColorTone:     field("color_tone"),
		StockStatus:   StockStatus(field("stock_status")),
	}
	if e.Name == "" {
		return Entry{}, ErrEmptyName
	}

	var err error
	if e.PriceMin, err = parsePrice(field("price_min")); err != nil {
		return Entry{}, fmt.Errorf("price_min for %q: %w", e.Name, err)
	}
	if e.PriceMax, err = parsePrice(field("price_max")); err != nil {
		return Entry{}, fmt.Errorf("price_max for %q: %w", e.Name, err)
	}
	if e.PriceMin > e.PriceMax {
		return Entry{}, fmt.Errorf("%w: price_min %s exceeds price_max %s for %q",
			ErrInvalidPrice, FormatPrice(e.PriceMin), FormatPrice(e.PriceMax), e.Name)
	}
	return e, nil
}

func parsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return v, nil
}
