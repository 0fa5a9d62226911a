package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for problems that would break startup.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}

	switch c.Catalog.Source {
	case CatalogSourceCSV:
		if c.Catalog.Path == "" {
			errs = append(errs, "CATALOG_PATH is required for the csv catalog source")
		}
	case CatalogSourcePostgres:
		if c.DB.Password == "" {
			errs = append(errs, "DB_PASSWORD is required for the postgres catalog source")
		}
		if c.DB.Port < 1 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
		}
	default:
		errs = append(errs, fmt.Sprintf("CATALOG_SOURCE must be %q or %q, got %q",
			CatalogSourceCSV, CatalogSourcePostgres, c.Catalog.Source))
	}

	switch c.Memory.Backend {
	case MemoryBackendInProcess:
	case MemoryBackendRedis:
		if c.Redis.Host == "" {
			errs = append(errs, "REDIS_HOST is required for the redis memory backend")
		}
		if c.Redis.Port < 1 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
		}
	default:
		errs = append(errs, fmt.Sprintf("MEMORY_BACKEND must be %q or %q, got %q",
			MemoryBackendInProcess, MemoryBackendRedis, c.Memory.Backend))
	}
	if c.Memory.MaxMessages < 1 {
		errs = append(errs, "MEMORY_MAX_MESSAGES must be positive")
	}
	if c.Memory.TTL < 0 {
		errs = append(errs, "MEMORY_TTL must not be negative")
	}

	if c.Advisor.Temperature < 0 || c.Advisor.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("ADVISOR_TEMPERATURE must be 0–2, got %g", c.Advisor.Temperature))
	}
	if c.Advisor.Timeout <= 0 {
		errs = append(errs, "ADVISOR_TIMEOUT must be positive")
	}
	if c.Advisor.TopN < 1 {
		errs = append(errs, "ADVISOR_TOP_N must be positive")
	}

	if c.RateLimit.MaxRequests < 1 || c.RateLimit.WindowSec < 1 {
		errs = append(errs, "RATELIMIT_MAX_REQUESTS and RATELIMIT_WINDOW_SEC must be positive")
	}

	// Missing credential: warn only, the fallback ranking still answers every turn
	if !c.Advisor.Enabled() {
		slog.Warn("GOOGLE_API_KEY is empty, AI advisor disabled; using ranked fallback only")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
