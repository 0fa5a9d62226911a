package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Source loads the catalog once at startup.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// FileSource reads a CSV export from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) (*Catalog, error) {
	return LoadFile(s.Path)
}

// PostgresSource reads the stones table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a catalog source backed by PostgreSQL.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT stone_name, price_min::float8, price_max::float8, indoor_outdoor, popular_use,
		        style_tag, base_color_en, pattern_type, color_tone, stock_status
		 FROM stones
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying stones: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	seen := make(map[string]struct{})
	for rows.Next() {
		var e Entry
		var stock string
		if err := rows.Scan(&e.Name, &e.PriceMin, &e.PriceMax, &e.IndoorOutdoor, &e.PopularUse,
			&e.StyleTag, &e.BaseColor, &e.PatternType, &e.ColorTone, &stock); err != nil {
			return nil, fmt.Errorf("scanning stone: %w", err)
		}
		if e.Name == "" {
			return nil, ErrEmptyName
		}
		e.StockStatus = StockStatus(stock)
		if _, dup := seen[e.Name]; dup {
			slog.Warn("catalog: duplicate stone name, first row wins on lookup", "name", e.Name)
		}
		seen[e.Name] = struct{}{}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stones: %w", err)
	}

	slog.Info("catalog loaded", "source", "postgres", "entries", len(entries))
	return New(entries), nil
}

// Count returns the number of rows in the stones table.
func (s *PostgresSource) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM stones`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting stones: %w", err)
	}
	return n, nil
}

// Insert adds entries to the stones table in order, all or nothing.
func (s *PostgresSource) Insert(ctx context.Context, entries []Entry) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range entries {
			batch.Queue(
				`INSERT INTO stones (stone_name, price_min, price_max, indoor_outdoor, popular_use,
				                     style_tag, base_color_en, pattern_type, color_tone, stock_status)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				e.Name, e.PriceMin, e.PriceMax, e.IndoorOutdoor, e.PopularUse,
				e.StyleTag, e.BaseColor, e.PatternType, e.ColorTone, string(e.StockStatus),
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting stones: %w", err)
		}
		return nil
	})
}

// SeedFromFile fills an empty stones table from a CSV export. It does
// nothing when the table already has rows.
func (s *PostgresSource) SeedFromFile(ctx context.Context, path string) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	c, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.Insert(ctx, c.entries); err != nil {
		return 0, err
	}
	slog.Info("catalog seeded", "path", path, "entries", c.Len())
	return c.Len(), nil
}
