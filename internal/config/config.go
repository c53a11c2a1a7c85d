// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything cmd/server needs to boot.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DBPath is the SQLite database file.
	DBPath string

	// BotToken signs init-data payloads. Required unless DevMode is set.
	BotToken string

	// DevMode skips init-data signature verification. Never enable in
	// production: it accepts any caller as whoever they claim to be.
	DevMode bool
}

// Load reads configuration from environment variables with sensible
// defaults, honoring a .env file in the working directory if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		DBPath:   getEnv("DB_PATH", "./data/hatm.db"),
		BotToken: os.Getenv("BOT_TOKEN"),
		DevMode:  strings.EqualFold(os.Getenv("DEV_MODE"), "true"),
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
