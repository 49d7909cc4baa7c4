package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("RABBIT_QUEUE", "")
	t.Setenv("QUOTE_SWEEP_INTERVAL", "")

	cfg := Load()
	if cfg.RabbitQueue != "notification_jobs" {
		t.Fatalf("unexpected queue %q", cfg.RabbitQueue)
	}
	if cfg.QuoteDefaultDays != 30 {
		t.Fatalf("unexpected default valid days %d", cfg.QuoteDefaultDays)
	}
	if cfg.QuoteSweepInterval != time.Hour {
		t.Fatalf("unexpected sweep interval %s", cfg.QuoteSweepInterval)
	}
	if cfg.DBDSN == "" {
		t.Fatalf("expected default dsn")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MIGRATIONS", "true")
	t.Setenv("NOTIFY_MAX_ATTEMPTS", "9")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	if !cfg.Migrations {
		t.Fatalf("expected migrations enabled")
	}
	if cfg.NotifyMaxAttempts != 9 {
		t.Fatalf("unexpected max attempts %d", cfg.NotifyMaxAttempts)
	}
	if cfg.CatalogCacheTTL != 30*time.Second {
		t.Fatalf("unexpected cache ttl %s", cfg.CatalogCacheTTL)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("invalid REDIS_DB should fall back to 0, got %d", cfg.RedisDB)
	}
}

func TestCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://a.example.com ,,https://b.example.com")

	cfg := Load()
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}
