// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds server settings. Values come from the environment (a
// local .env file is honored when present); command-line flags may
// override them in main.
type Config struct {
	Port     int
	DBPath   string
	LogLevel string
}

// Load reads configuration, applying defaults for anything unset.
func Load() Config {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	return Config{
		Port:     envInt("PORT", 8080),
		DBPath:   envString("DB_PATH", "requests.db"),
		LogLevel: envString("LOG_LEVEL", "info"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
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
