package config

import (
	"testing"
	"time"
)

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadParsesDurationsAndClampsTTL(t *testing.T) {
	t.Setenv("PRICING_CACHE_TTL", "10ms")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("PORT", "9090")
	t.Setenv("NOTIFY_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PricingCacheTTL != 5*time.Minute {
		t.Fatalf("pricing cache ttl = %s, want 5m", cfg.PricingCacheTTL)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("session ttl = %s, want 24h", cfg.SessionTTL)
	}
	if cfg.TelegramChatID != -100123 {
		t.Fatalf("telegram chat id = %d", cfg.TelegramChatID)
	}
	if cfg.NotifyTimeout != 3*time.Second {
		t.Fatalf("notify timeout = %s, want 3s", cfg.NotifyTimeout)
	}
	if cfg.Address() != ":9090" {
		t.Fatalf("address = %q", cfg.Address())
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected malformed REDIS_DB to fail")
	}
}
