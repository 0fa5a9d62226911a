package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stoneadvisor/advisor/internal/config"
)

// ApplicationName tags this service's sessions in pg_stat_activity.
const ApplicationName = "stoneadvisor"

// ErrCatalogTableMissing means the database is reachable but migrations
// have not created the stones table yet.
var ErrCatalogTableMissing = errors.New("stones table missing, migrations not applied")

// NewPostgresPool opens the catalog pool. The catalog is read once at
// startup and written only by seeding, so the pool stays small by default.
func NewPostgresPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing postgres config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}

	if err := HealthCheck(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("checking postgres: %w", err)
	}

	slog.Info("connected to PostgreSQL", "host", cfg.Host, "port", cfg.Port, "db", cfg.Name, "max_conns", poolCfg.MaxConns)
	return pool, nil
}

// HealthCheck pings the database and confirms the catalog table exists.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	var present bool
	if err := pool.QueryRow(ctx, `SELECT to_regclass('public.stones') IS NOT NULL`).Scan(&present); err != nil {
		return fmt.Errorf("looking up stones table: %w", err)
	}
	if !present {
		return ErrCatalogTableMissing
	}
	return nil
}
