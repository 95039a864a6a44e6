package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.SlotHoldTTL != 5*time.Minute {
		t.Errorf("SlotHoldTTL = %v, want 5m", cfg.SlotHoldTTL)
	}
	if cfg.RateLimitPerSecond != 0 {
		t.Errorf("RateLimitPerSecond = %v, want 0 (disabled)", cfg.RateLimitPerSecond)
	}
	if cfg.RateLimitBurst != 20 {
		t.Errorf("RateLimitBurst = %v, want 20", cfg.RateLimitBurst)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SLOT_HOLD_TTL", "90s")
	t.Setenv("RATE_LIMIT_PER_SECOND", "5")
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://clinic.example.com, https://admin.example.com")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.SlotHoldTTL != 90*time.Second {
		t.Errorf("SlotHoldTTL = %v, want 90s", cfg.SlotHoldTTL)
	}
	if cfg.RateLimitPerSecond != 5 {
		t.Errorf("RateLimitPerSecond = %v, want 5", cfg.RateLimitPerSecond)
	}
	if cfg.RateLimitBurst != 10 {
		t.Errorf("RateLimitBurst = %v, want 10", cfg.RateLimitBurst)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS = false, want true")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SLOT_HOLD_TTL", "not-a-duration")
	t.Setenv("RATE_LIMIT_PER_SECOND", "abc")

	cfg := Load()

	if cfg.SlotHoldTTL != 5*time.Minute {
		t.Errorf("SlotHoldTTL = %v, want default 5m", cfg.SlotHoldTTL)
	}
	if cfg.RateLimitPerSecond != 0 {
		t.Errorf("RateLimitPerSecond = %v, want default 0", cfg.RateLimitPerSecond)
	}
}
