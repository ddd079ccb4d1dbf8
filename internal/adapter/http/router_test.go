package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/partledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/partledger/internal/adapter/http/middleware"
	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/infrastructure/metrics"
	"github.com/iho/partledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointServesRegistry(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "partledger_parts_created_total") {
		t.Fatalf("expected domain metrics to be exposed")
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyOnlyGuardsMovements(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"name":"Bolt","quantity":1,"unit_price":"1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parts/", strings.NewReader(body))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	router.ServeHTTP(httptest.NewRecorder(), req)

	if store.checkCalled {
		t.Fatalf("expected part creation to bypass the idempotency store")
	}

	body = `{"date":"2024-01-01","quantity":1,"part_name":"Bolt"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/stock-in", strings.NewReader(body))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestNewRouter_RequiresSessionWhenAuthEnabled(t *testing.T) {
	auth := authenticatorFunc(func(ctx context.Context, token string) (*domain.Session, error) {
		if token != "good" {
			return nil, domain.ErrUnauthorized
		}
		return &domain.Session{ID: "sid", Username: "admin"}, nil
	})
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Authenticator = auth
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/parts/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parts/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	// Login stays reachable without a session.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`)))
	if rec.Code == http.StatusUnauthorized && strings.Contains(rec.Body.String(), "missing session token") {
		t.Fatalf("login must not require a session")
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.CORSAllowedOrigins = []string{"http://localhost:5173"}
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/stock-out", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"GET /api/v1/parts/",
		"POST /api/v1/parts/",
		"PUT /api/v1/parts/{name}",
		"DELETE /api/v1/parts/{name}",
		"GET /api/v1/parts/{name}/movements",
		"POST /api/v1/stock-in",
		"POST /api/v1/stock-out",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	cfg := RouterConfig{
		HealthHandler:  handler.NewHealthHandler(nil),
		PartHandler:    handler.NewPartHandler(stubCatalogService{}, m),
		StockHandler:   handler.NewStockHandler(stubStockService{}, m),
		LedgerHandler:  handler.NewLedgerHandler(stubLedgerService{}, m),
		AuthHandler:    handler.NewAuthHandler(stubAuthService{}, m, false),
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type authenticatorFunc func(ctx context.Context, token string) (*domain.Session, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	return f(ctx, token)
}

type stubCatalogService struct{}

func (stubCatalogService) ListParts(ctx context.Context) ([]*domain.Part, error) {
	return []*domain.Part{}, nil
}

func (stubCatalogService) AddPart(ctx context.Context, input usecase.PartInput) (*domain.Part, error) {
	return &domain.Part{Name: input.Name}, nil
}

func (stubCatalogService) UpdatePart(ctx context.Context, input usecase.PartInput) (*domain.Part, error) {
	return &domain.Part{Name: input.Name}, nil
}

func (stubCatalogService) RemovePart(ctx context.Context, name string) error {
	return nil
}

type stubStockService struct{}

func (stubStockService) StockIn(ctx context.Context, input usecase.StockMovementInput) (*domain.Movement, error) {
	return &domain.Movement{ID: "in", PartName: input.PartName, Direction: domain.DirectionIn, Quantity: input.Quantity, Date: input.Date}, nil
}

func (stubStockService) StockOut(ctx context.Context, input usecase.StockMovementInput) (*domain.Movement, error) {
	return &domain.Movement{ID: "out", PartName: input.PartName, Direction: domain.DirectionOut, Quantity: input.Quantity, Date: input.Date}, nil
}

type stubLedgerService struct{}

func (stubLedgerService) CheckConsistency(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return &usecase.ReconciliationReport{Consistent: true}, nil
}

func (stubLedgerService) ListMovements(ctx context.Context, partName string, limit, offset int) ([]*domain.Movement, error) {
	return []*domain.Movement{}, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, username, password string) (*usecase.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (stubAuthService) Logout(ctx context.Context, token string) error {
	return nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
