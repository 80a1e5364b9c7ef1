// Package config loads configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings.
type Config struct {
	DatabaseURL string
	RedisAddr   string
	HTTPAddr    string
	CompanionID int
	UserName    string
	CacheTTL    time.Duration
	LogLevel    string
}

// Load reads env vars (and an optional .env file), applies defaults, and
// validates required fields.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		HTTPAddr:    os.Getenv("HTTP_ADDR"),
		UserName:    os.Getenv("USER_NAME"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	cfg.CompanionID = getEnvInt("COMPANION_ID", 1)
	cfg.CacheTTL = time.Duration(getEnvInt("CACHE_TTL_SECONDS", 600)) * time.Second

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required (postgres URL or sqlite path)")
	}

	return cfg
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
