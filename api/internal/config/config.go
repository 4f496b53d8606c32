// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port    string
	Address string

	// GeminiAPIKey is intentionally allowed to be empty at startup; the
	// external call reports the missing credential at request time.
	GeminiAPIKey string
	GeminiModel  string

	TelegramBotToken string

	// MaxUploadBytes caps the multipart memory budget for /process_image.
	MaxUploadBytes int64
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt64Env(k string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Load reads and validates configuration. PORT from the platform takes
// precedence over the default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8000"),
		Address:          getEnv("ADDRESS", "0.0.0.0"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		MaxUploadBytes:   getInt64Env("MAX_UPLOAD_BYTES", 10<<20), // 10 MiB
	}
	if err := validatePort(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	return cfg, nil
}

// MustTelegramToken is for the bot entrypoint, which cannot run without it.
func (c *Config) MustTelegramToken() string {
	if strings.TrimSpace(c.TelegramBotToken) == "" {
		return mustEnv("TELEGRAM_BOT_TOKEN")
	}
	return c.TelegramBotToken
}

func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return nil
}
