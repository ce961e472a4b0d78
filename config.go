package main

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Host           string
	HTTPPort       int
	WSPort         int
	StaticDir      string
	DefaultAPIKey  string
	AIModel        string
	AIBaseURL      string
	AITimeout      time.Duration
	RateLimitPerIP float64
}

func LoadConfig() *Config {
	return &Config{
		Host:           envStr("NEONCHAT_HOST", "localhost"),
		HTTPPort:       envInt("NEONCHAT_HTTP_PORT", 8080),
		WSPort:         envInt("NEONCHAT_WS_PORT", 8765),
		StaticDir:      envStr("NEONCHAT_STATIC_DIR", "static"),
		DefaultAPIKey:  os.Getenv("OPENAI_API_KEY"),
		AIModel:        envStr("NEONCHAT_AI_MODEL", "gpt-4o-mini"),
		AIBaseURL:      envStr("NEONCHAT_AI_BASE_URL", ""),
		AITimeout:      time.Duration(envInt("NEONCHAT_AI_TIMEOUT", 30)) * time.Second,
		RateLimitPerIP: float64(envInt("NEONCHAT_RATE_LIMIT_PER_IP", 20)),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
