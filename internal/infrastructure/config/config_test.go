package config_test

import (
	"testing"
	"time"

	"github.com/iho/partledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected redis to be disabled by default, got %s", cfg.RedisURL)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.StorageDriver != config.DriverPostgres {
		t.Fatalf("expected postgres driver by default, got %s", cfg.StorageDriver)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.TxTimeout != 10*time.Second {
		t.Fatalf("expected default tx timeout 10s, got %s", cfg.TxTimeout)
	}

	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected CORS default: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mysql")
	t.Setenv("MYSQL_DSN", "u:p@tcp(db:3306)/inv")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TX_TIMEOUT", "3s")
	t.Setenv("SESSION_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageDriver != config.DriverMySQL || cfg.MySQLDSN != "u:p@tcp(db:3306)/inv" {
		t.Fatalf("unexpected storage config: %s %s", cfg.StorageDriver, cfg.MySQLDSN)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.TxTimeout != 3*time.Second {
		t.Fatalf("expected tx timeout 3s, got %s", cfg.TxTimeout)
	}

	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two CORS origins, got %v", cfg.CORSAllowedOrigins)
	}

	if got := cfg.DefaultMigrationsPath(); got != "internal/infrastructure/mysql/migrations" {
		t.Fatalf("unexpected migrations path %s", got)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "sqlite", "AUTH_ENABLED": "false"}},
		{name: "auth without secret", env: map[string]string{"AUTH_ENABLED": "true", "SESSION_SECRET": ""}},
		{name: "auth without redis", env: map[string]string{"AUTH_ENABLED": "true", "SESSION_SECRET": "s", "REDIS_URL": ""}},
		{name: "non-positive tx timeout", env: map[string]string{"AUTH_ENABLED": "false", "TX_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := config.Load(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadStorageSkipsAuthChecks(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := config.LoadStorage()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageDriver != config.DriverMemory {
		t.Fatalf("expected memory driver, got %s", cfg.StorageDriver)
	}

	t.Setenv("STORAGE_DRIVER", "sqlite")
	if _, err := config.LoadStorage(); err == nil {
		t.Fatalf("expected unknown driver to be rejected")
	}
}
