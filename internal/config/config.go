package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Catalog sources.
const (
	CatalogSourceCSV      = "csv"
	CatalogSourcePostgres = "postgres"
)

// Conversation memory backends.
const (
	MemoryBackendInProcess = "memory"
	MemoryBackendRedis     = "redis"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Catalog   CatalogConfig
	DB        DBConfig
	Redis     RedisConfig
	Memory    MemoryConfig
	Advisor   AdvisorConfig
	NATS      NATSConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LogConfig struct {
	Level  string
	Format string
}

type CatalogConfig struct {
	Source    string
	Path      string
	ImagesDir string
}

type DBConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MigrationsPath string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MemoryConfig struct {
	Backend     string
	MaxMessages int
	// TTL of zero keeps sessions until they are cleared explicitly.
	TTL time.Duration
}

// AdvisorConfig configures the LLM advisory call. An empty APIKey disables it.
type AdvisorConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
	TopN        int
}

// Enabled reports whether a credential is configured.
func (c AdvisorConfig) Enabled() bool {
	return c.APIKey != ""
}

type NATSConfig struct {
	URL string
}

type RateLimitConfig struct {
	MaxRequests int
	WindowSec   int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
		Catalog: CatalogConfig{
			Source:    k.String("catalog.source"),
			Path:      k.String("catalog.path"),
			ImagesDir: k.String("catalog.images.dir"),
		},
		DB: DBConfig{
			Host:           k.String("db.host"),
			Port:           k.Int("db.port"),
			User:           k.String("db.user"),
			Password:       k.String("db.password"),
			Name:           k.String("db.name"),
			SSLMode:        k.String("db.sslmode"),
			MaxConns:       int32(k.Int("db.max.conns")),
			MigrationsPath: k.String("db.migrations.path"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		Memory: MemoryConfig{
			Backend:     k.String("memory.backend"),
			MaxMessages: k.Int("memory.max.messages"),
		},
		Advisor: AdvisorConfig{
			APIKey:      k.String("google.api.key"),
			Model:       k.String("advisor.model"),
			BaseURL:     k.String("advisor.base.url"),
			Temperature: k.Float64("advisor.temperature"),
			TopN:        k.Int("advisor.top.n"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: k.Int("ratelimit.max.requests"),
			WindowSec:   k.Int("ratelimit.window.sec"),
		},
	}

	if origins := k.String("cors.allowed.origins"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, o)
			}
		}
	}

	applyDefaults(cfg)

	// Parse durations
	cfg.Memory.TTL, err = parseDuration(k.String("memory.ttl"), "0s")
	if err != nil {
		return nil, fmt.Errorf("parsing memory ttl: %w", err)
	}
	cfg.Advisor.Timeout, err = parseDuration(k.String("advisor.timeout"), "15s")
	if err != nil {
		return nil, fmt.Errorf("parsing advisor timeout: %w", err)
	}

	// Temperature 0 is a legitimate setting, so only fill it when unset.
	if !k.Exists("advisor.temperature") {
		cfg.Advisor.Temperature = 0.2
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = CatalogSourceCSV
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "granite_master_dataset.csv"
	}
	if cfg.Catalog.ImagesDir == "" {
		cfg.Catalog.ImagesDir = "images"
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "stoneadvisor"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "stoneadvisor"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 10
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Memory.Backend == "" {
		cfg.Memory.Backend = MemoryBackendInProcess
	}
	if cfg.Memory.MaxMessages == 0 {
		cfg.Memory.MaxMessages = 100
	}
	if cfg.Advisor.Model == "" {
		cfg.Advisor.Model = "gemini-2.0-flash"
	}
	if cfg.Advisor.BaseURL == "" {
		cfg.Advisor.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Advisor.TopN == 0 {
		cfg.Advisor.TopN = 5
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = 30
	}
	if cfg.RateLimit.WindowSec == 0 {
		cfg.RateLimit.WindowSec = 60
	}
}

func parseDuration(raw, fallback string) (time.Duration, error) {
	if raw == "" {
		raw = fallback
	}
	return time.ParseDuration(raw)
}
