package api

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/stoneadvisor/advisor/internal/middleware"
)

// ImagesPath is the URL prefix catalog photos are served under.
const ImagesPath = "/images/"

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	CreateSession http.HandlerFunc
	SendMessage   http.HandlerFunc
	History       http.HandlerFunc
	ClearSession  http.HandlerFunc
	ListCatalog   http.HandlerFunc
}

// HealthCheck is one dependency probed by the readiness endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	ChatRateLimiter    func(http.Handler) http.Handler
	ImagesDir          string
	ReadinessChecks    []HealthCheck
}

func NewRouter(cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders(ImagesPath))
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe: always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{"status": "healthy"}
		status := http.StatusOK

		for _, c := range cfg.ReadinessChecks {
			if err := c.Check(r.Context()); err != nil {
				health[c.Name] = "unhealthy"
				health["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			health[c.Name] = "healthy"
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	if cfg.ImagesDir != "" {
		r.Handle(ImagesPath+"*", http.StripPrefix(ImagesPath, http.FileServer(filesOnly{http.Dir(cfg.ImagesDir)})))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", h.ListCatalog)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Delete("/", h.ClearSession)
				r.Get("/messages", h.History)

				r.Group(func(r chi.Router) {
					if cfg.ChatRateLimiter != nil {
						r.Use(cfg.ChatRateLimiter)
					}
					r.Post("/messages", h.SendMessage)
				})
			})
		})
	})

	return r
}

// filesOnly hides directories from http.FileServer so the images folder
// cannot be listed.
type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
