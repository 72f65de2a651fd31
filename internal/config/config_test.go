package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("STORAGE_BACKEND", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.StorageBackend != "memory" {
		t.Fatalf("expected default storage backend, got %s", cfg.StorageBackend)
	}
	if cfg.LoginPage != "login.html" {
		t.Fatalf("expected default login page, got %s", cfg.LoginPage)
	}
	if cfg.AddedLabelResetDelay != 1500*time.Millisecond {
		t.Fatalf("expected default added label delay, got %s", cfg.AddedLabelResetDelay)
	}
	if cfg.CartTTL != 0 {
		t.Fatalf("expected no cart TTL by default, got %s", cfg.CartTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CART_TTL", "72h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://chesser.example, https://www.chesser.example")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.StorageBackend != "redis" {
		t.Fatalf("expected normalized storage backend, got %s", cfg.StorageBackend)
	}
	if !cfg.RedisTLS {
		t.Fatal("expected redis TLS enabled")
	}
	if cfg.CartTTL != 72*time.Hour {
		t.Fatalf("expected cart TTL override, got %s", cfg.CartTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://www.chesser.example" {
		t.Fatalf("expected trimmed origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_TLS", "definitely")
	t.Setenv("CART_TTL", "soon")
	cfg := Load()
	if cfg.RedisTLS {
		t.Fatal("expected malformed bool to fall back to default")
	}
	if cfg.CartTTL != 0 {
		t.Fatalf("expected malformed duration to fall back, got %s", cfg.CartTTL)
	}
}
