package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CACHE_MAX_SIZE", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("SESSION_TIMEOUT", "")
	t.Setenv("SESSION_MAX_PAIRS", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")

	cfg := Load()
	if cfg.CacheMaxSize != 100 {
		t.Fatalf("expected default cache max size 100, got %d", cfg.CacheMaxSize)
	}
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("expected default cache ttl 1h, got %s", cfg.CacheTTL)
	}
	if cfg.SessionTimeout != 30*time.Minute {
		t.Fatalf("expected default session timeout 30m, got %s", cfg.SessionTimeout)
	}
	if cfg.SessionMaxPairs != 10 {
		t.Fatalf("expected default max pairs 10, got %d", cfg.SessionMaxPairs)
	}
	if cfg.APIRateLimitRPS != 0 {
		t.Fatalf("expected rate limiting disabled by default, got %f", cfg.APIRateLimitRPS)
	}
	if cfg.GroqBaseURL != "https://api.groq.com" {
		t.Fatalf("expected default groq base url, got %q", cfg.GroqBaseURL)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CACHE_MAX_SIZE", "250")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("SESSION_TIMEOUT", "1h")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_RATE_LIMIT_BURST", "10")

	cfg := Load()
	if cfg.CacheMaxSize != 250 {
		t.Fatalf("expected cache max size 250, got %d", cfg.CacheMaxSize)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Fatalf("expected cache ttl 15m, got %s", cfg.CacheTTL)
	}
	if cfg.SessionTimeout != time.Hour {
		t.Fatalf("expected session timeout 1h, got %s", cfg.SessionTimeout)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5 rps, got %f", cfg.APIRateLimitRPS)
	}
	if cfg.APIRateLimitBurst != 10 {
		t.Fatalf("expected burst 10, got %d", cfg.APIRateLimitBurst)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CACHE_MAX_SIZE", "not-a-number")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("API_RATE_LIMIT_RPS", "fast")

	cfg := Load()
	if cfg.CacheMaxSize != 100 {
		t.Fatalf("expected fallback cache max size 100, got %d", cfg.CacheMaxSize)
	}
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("expected fallback cache ttl 1h, got %s", cfg.CacheTTL)
	}
	if cfg.APIRateLimitRPS != 0 {
		t.Fatalf("expected fallback rate limit 0, got %f", cfg.APIRateLimitRPS)
	}
}
