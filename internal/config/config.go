package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL  string
	RedisURL     string // empty disables the cross-process event bridge
	JWTSecret    string
	Port         string
	CORSOrigin   string
	ProxyTimeout time.Duration
	EnableDrag   bool // ship drag-to-reposition in the overlay
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() Config {
	timeoutSec, _ := strconv.Atoi(getenv("PROXY_TIMEOUT", "10"))
	drag, _ := strconv.ParseBool(getenv("ENABLE_DRAG", "false"))
	return Config{
		DatabaseURL:  getenv("DATABASE_URL", "sqlite://pastel.db"),
		RedisURL:     os.Getenv("REDIS_URL"),
		JWTSecret:    getenv("JWT_SECRET", "dev-secret-change-me"),
		Port:         getenv("PORT", "3456"),
		CORSOrigin:   getenv("CORS_ORIGIN", "*"),
		ProxyTimeout: time.Duration(timeoutSec) * time.Second,
		EnableDrag:   drag,
	}
}
