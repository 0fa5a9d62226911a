package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/stoneadvisor/advisor/internal/advisor"
	"github.com/stoneadvisor/advisor/internal/api"
	"github.com/stoneadvisor/advisor/internal/catalog"
	"github.com/stoneadvisor/advisor/internal/chat"
	"github.com/stoneadvisor/advisor/internal/config"
	"github.com/stoneadvisor/advisor/internal/database"
	"github.com/stoneadvisor/advisor/internal/memory"
	mw "github.com/stoneadvisor/advisor/internal/middleware"
	inats "github.com/stoneadvisor/advisor/internal/nats"
	"github.com/stoneadvisor/advisor/internal/recommend"
	iredis "github.com/stoneadvisor/advisor/internal/redis"
	"github.com/stoneadvisor/advisor/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var readiness []api.HealthCheck

	// Catalog
	var stones *catalog.Catalog
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
			slog.Error("running migrations", "error", err)
			os.Exit(1)
		}
		pool, err := database.NewPostgresPool(ctx, cfg.DB)
		if err != nil {
			slog.Error("connecting to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		src := catalog.NewPostgresSource(pool)
		if cfg.Catalog.Path != "" {
			if _, err := os.Stat(cfg.Catalog.Path); err == nil {
				if _, err := src.SeedFromFile(ctx, cfg.Catalog.Path); err != nil {
					slog.Error("seeding catalog", "error", err)
					os.Exit(1)
				}
			}
		}
		stones, err = src.Load(ctx)
		if err != nil {
			slog.Error("loading catalog", "error", err)
			os.Exit(1)
		}
		readiness = append(readiness, api.HealthCheck{
			Name:  "database",
			Check: func(ctx context.Context) error { return database.HealthCheck(ctx, pool) },
		})
	default:
		stones, err = catalog.FileSource{Path: cfg.Catalog.Path}.Load(ctx)
		if err != nil {
			slog.Error("loading catalog", "error", err)
			os.Exit(1)
		}
	}
	if stones.Len() == 0 {
		slog.Warn("catalog is empty, every turn will answer with the no-data message")
	}

	// Redis: session memory and chat rate limiting
	var redisClient *goredis.Client
	if cfg.Memory.Backend == config.MemoryBackendRedis {
		redisClient, err = iredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Error("connecting to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		readiness = append(readiness, api.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return iredis.HealthCheck(ctx, redisClient) },
		})
	}

	var store memory.Store
	var chatLimiter func(next http.Handler) http.Handler
	if redisClient != nil {
		store = memory.NewRedisStore(redisClient, cfg.Memory.MaxMessages, cfg.Memory.TTL)
		chatLimiter = mw.NewRateLimiter(redisClient, "chat", cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowSec).Middleware
	} else {
		store = memory.NewInProcessStore(cfg.Memory.MaxMessages, cfg.Memory.TTL)
	}
	sessions := memory.NewService(store)

	// Advisor; a nil client leaves it disabled
	var completer advisor.Completer
	if c := advisor.NewGeminiClient(cfg.Advisor.APIKey, cfg.Advisor.Model, cfg.Advisor.BaseURL, cfg.Advisor.Temperature); c != nil {
		completer = c
	}
	adv := advisor.New(completer, cfg.Advisor.TopN, cfg.Advisor.Timeout)
	slog.Info("advisor configured", "enabled", adv.Enabled(), "model", cfg.Advisor.Model, "top_n", cfg.Advisor.TopN)

	// NATS events (optional)
	var events chat.EventPublisher
	if cfg.NATS.URL != "" {
		natsClient, err := inats.NewClient(ctx, cfg.NATS)
		if err != nil {
			slog.Error("connecting to nats", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		events = inats.NewPublisher(natsClient.JetStream())
		readiness = append(readiness, api.HealthCheck{
			Name: "nats",
			Check: func(context.Context) error {
				if !natsClient.Healthy() {
					return errNATSDisconnected
				}
				return nil
			},
		})
	}

	images := catalog.NewImageLocator(cfg.Catalog.ImagesDir)
	engine := recommend.NewEngine(stones, adv, images)
	chatHandler := chat.NewHandler(sessions, engine, stones, events)

	router := api.NewRouter(api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		ChatRateLimiter:    chatLimiter,
		ImagesDir:          images.Dir(),
		ReadinessChecks:    readiness,
	}, api.HandlerSet{
		CreateSession: chatHandler.CreateSession,
		SendMessage:   chatHandler.SendMessage,
		History:       chatHandler.History,
		ClearSession:  chatHandler.ClearSession,
		ListCatalog:   chatHandler.ListCatalog,
	})

	srv := server.New(cfg.Server, cfg.Advisor.Timeout, router)
	if err := srv.Start(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

var errNATSDisconnected = errors.New("nats disconnected")

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
