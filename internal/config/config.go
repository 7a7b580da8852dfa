package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingStoreURL = errors.New("config: STORE_URL is required")
	ErrMissingStoreKey = errors.New("config: STORE_KEY is required for a hosted store")
)

type Config struct {
	Port          string
	APIPort       string
	StoreURL      string
	StoreKey      string
	MigrationsDir string
	CSRFKey       []byte
	SessionKey    []byte
	CookieDomain  string
	CookieSecure  bool
}

// Hosted reports whether the store is the hosted REST table API.
func (c *Config) Hosted() bool {
	return strings.HasPrefix(c.StoreURL, "http://") || strings.HasPrefix(c.StoreURL, "https://")
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8585"),
		APIPort:       getEnv("API_PORT", "8080"),
		StoreURL:      strings.TrimSpace(os.Getenv("STORE_URL")),
		StoreKey:      strings.TrimSpace(os.Getenv("STORE_KEY")),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		CookieDomain:  getEnv("COOKIE_DOMAIN", ""),
		CookieSecure:  getEnv("COOKIE_SECURE", "false") == "true",
	}

	if cfg.StoreURL == "" {
		return nil, ErrMissingStoreURL
	}
	if cfg.Hosted() && cfg.StoreKey == "" {
		return nil, ErrMissingStoreKey
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	cfg.Port = validPort("PORT", cfg.Port, "8585")
	cfg.APIPort = validPort("API_PORT", cfg.APIPort, "8080")

	return cfg, nil
}

// loadKey decodes a base64 key of at least 32 bytes, or generates a random
// one for development.
func loadKey(name string) []byte {
	raw := os.Getenv(name)
	if raw == "" {
		slog.Warn(name + " environment variable not set. Generating a random key for development. This key will change on each restart. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decoded
}

func validPort(name, value, fallback string) string {
	if _, err := strconv.Atoi(value); err != nil {
		slog.Error("Invalid port environment variable. Falling back to default.", "name", name, "value", value)
		return fallback
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// generateRandomBytes uses crypto/rand.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		padded := make([]byte, n)
		copy(padded, fallbackKey)
		return padded
	}
	return b
}
