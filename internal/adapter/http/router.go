package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/partledger/internal/adapter/http/handler"
	"github.com/iho/partledger/internal/adapter/http/middleware"
	"github.com/iho/partledger/internal/infrastructure/metrics"
	"github.com/iho/partledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PartHandler   *handler.PartHandler
	StockHandler  *handler.StockHandler
	LedgerHandler *handler.LedgerHandler
	// AuthHandler may be nil when no session store is configured.
	AuthHandler   *handler.AuthHandler
	HealthHandler *handler.HealthHandler

	// Authenticator guards /api/v1. Nil disables authentication.
	Authenticator    middleware.Authenticator
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	// Metrics is required.
	Metrics *metrics.Metrics
	// MetricsHandler serves /metrics. Defaults to promhttp.Handler().
	MetricsHandler     http.Handler
	Logger             zerolog.Logger
	CORSAllowedOrigins []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
			ExposedHeaders:   []string{middleware.IdempotencyReplayHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthHandler != nil {
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/logout", cfg.AuthHandler.Logout)
		}

		r.Group(func(r chi.Router) {
			if cfg.Authenticator != nil {
				r.Use(middleware.RequireSession(cfg.Authenticator))
			}

			// Parts
			r.Route("/parts", func(r chi.Router) {
				r.Get("/", cfg.PartHandler.List)
				r.Post("/", cfg.PartHandler.Create)
				r.Put("/{name}", cfg.PartHandler.Update)
				r.Delete("/{name}", cfg.PartHandler.Remove)
				r.Get("/{name}/movements", cfg.LedgerHandler.ListMovements)
			})

			// Stock movements
			r.Group(func(r chi.Router) {
				// Idempotency middleware for movement submissions
				if cfg.IdempotencyStore != nil {
					idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Metrics.IdempotentReplays)
					r.Use(idempotency.Wrap)
				}
				r.Post("/stock-in", cfg.StockHandler.StockIn)
				r.Post("/stock-out", cfg.StockHandler.StockOut)
			})

			r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
		})
	})

	return r
}
