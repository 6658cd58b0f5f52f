package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	GroqAPIKey  string
	GroqBaseURL string

	UpstashVectorURL   string
	UpstashVectorToken string

	ProfilePath string

	CacheMaxSize        int
	CacheTTL            time.Duration
	EnhancementCacheTTL time.Duration

	SessionTimeout       time.Duration
	SessionMaxPairs      int
	SessionContextTokens int

	APIRateLimitRPS     float64
	APIRateLimitBurst   int
	APIMaxInFlight      int
	APIBackpressureWait time.Duration
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		GroqAPIKey:  mustEnv("GROQ_API_KEY", ""),
		GroqBaseURL: mustEnv("GROQ_BASE_URL", "https://api.groq.com"),

		UpstashVectorURL:   mustEnv("UPSTASH_VECTOR_REST_URL", ""),
		UpstashVectorToken: mustEnv("UPSTASH_VECTOR_REST_TOKEN", ""),

		ProfilePath: mustEnv("PROFILE_PATH", "./data/profile.yaml"),

		CacheMaxSize:        mustEnvInt("CACHE_MAX_SIZE", 100),
		CacheTTL:            mustEnvDuration("CACHE_TTL", time.Hour),
		EnhancementCacheTTL: mustEnvDuration("ENHANCEMENT_CACHE_TTL", time.Hour),

		SessionTimeout:       mustEnvDuration("SESSION_TIMEOUT", 30*time.Minute),
		SessionMaxPairs:      mustEnvInt("SESSION_MAX_PAIRS", 10),
		SessionContextTokens: mustEnvInt("SESSION_CONTEXT_TOKENS", 2000),

		APIRateLimitRPS:     mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:   mustEnvInt("API_RATE_LIMIT_BURST", 1),
		APIMaxInFlight:      mustEnvInt("API_MAX_IN_FLIGHT", 0),
		APIBackpressureWait: mustEnvDuration("API_BACKPRESSURE_WAIT", 100*time.Millisecond),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
