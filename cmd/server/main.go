package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/partledger/internal/adapter/http"
	"github.com/iho/partledger/internal/adapter/http/handler"
	"github.com/iho/partledger/internal/adapter/http/middleware"
	"github.com/iho/partledger/internal/adapter/repository"
	postgresRepo "github.com/iho/partledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/partledger/internal/adapter/repository/redis"
	"github.com/iho/partledger/internal/infrastructure/auth"
	"github.com/iho/partledger/internal/infrastructure/config"
	"github.com/iho/partledger/internal/infrastructure/logger"
	"github.com/iho/partledger/internal/infrastructure/metrics"
	"github.com/iho/partledger/internal/infrastructure/redis"
	"github.com/iho/partledger/internal/usecase"
)

const limiterIdleTimeout = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.DefaultContextLogger = &log.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open storage
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open storage")
	}
	defer store.Close()
	log.Info().Str("driver", store.Driver).Msg("storage ready")

	// Connect to Redis
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, cfg.DatabaseTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize use cases
	idGen := postgresRepo.NewULIDGenerator()
	catalogUC := usecase.NewCatalogUseCase(store.TxManager, store.Parts, store.Movements)
	stockUC := usecase.NewStockUseCase(store.TxManager, store.Parts, store.Movements, idGen,
		usecase.WithTransactionTimeout(cfg.TxTimeout))
	ledgerUC := usecase.NewLedgerUseCase(store.Ledger, store.Movements, store.Parts)

	var (
		authHandler      *handler.AuthHandler
		authenticator    middleware.Authenticator
		idempotencyStore usecase.IdempotencyStore
	)
	if redisClient != nil {
		authUC := usecase.NewAuthUseCase(store.Users, redisRepo.NewSessionStore(redisClient),
			auth.NewTokenManager(cfg.SessionSecret), cfg.SessionTTL)
		authHandler = handler.NewAuthHandler(authUC, m, cfg.CookieSecure)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)

		if cfg.AuthEnabled {
			authenticator = authUC
			if cfg.AdminUsername != "" {
				if err := authUC.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
					log.Fatal().Err(err).Str("username", cfg.AdminUsername).Msg("failed to bootstrap admin user")
				}
			}
		}
	} else {
		log.Warn().Msg("REDIS_URL is empty: login and idempotency keys are disabled")
	}

	if authenticator == nil {
		log.Warn().Msg("authentication is disabled")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithHitCounter(m.RateLimitHits)
	go cleanupLimiters(ctx, rateLimiter)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PartHandler:        handler.NewPartHandler(catalogUC, m),
		StockHandler:       handler.NewStockHandler(stockUC, m),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC, m),
		AuthHandler:        authHandler,
		HealthHandler:      handler.NewHealthHandler(healthChecks(store.Driver, store.Ping, redisClient)),
		Authenticator:      authenticator,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:             log.Logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create server
	server := &http.Server{
		Addr:         serverAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func serverAddr(port string) string {
	return fmt.Sprintf(":%s", port)
}

// healthChecks lists the dependencies /ready pings. redisClient may be nil.
func healthChecks(driver string, ping handler.CheckFunc, redisClient *goredis.Client) map[string]handler.CheckFunc {
	checks := map[string]handler.CheckFunc{driver: ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter) {
	ticker := time.NewTicker(limiterIdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters(limiterIdleTimeout)
		}
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
