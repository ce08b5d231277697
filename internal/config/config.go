// Package config manages application configuration
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session storage backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port           string
	Environment    string // "development" or "production"
	AllowedOrigins []string
	LogLevel       string

	// Database
	DatabaseURL string

	// Security
	SecretKey string // For JWT signing of client tokens

	// Session settings
	SessionTTL          time.Duration
	SessionBackend      string
	ClientTokenDuration time.Duration
	ClientIdleTimeout   time.Duration

	// Redis, used when SessionBackend is "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Localisation
	DefaultLanguage string

	// Bootstrap admin, created when the users table is empty
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("TOURDESK_PORT", "8080"),
		Environment:         getEnv("TOURDESK_ENV", "development"),
		AllowedOrigins:      getListEnv("TOURDESK_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		LogLevel:            getEnv("TOURDESK_LOG_LEVEL", "info"),
		DatabaseURL:         getEnv("TOURDESK_DATABASE_URL", "tourdesk.db"),
		SecretKey:           getEnv("TOURDESK_SECRET_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:          getDurationEnv("TOURDESK_SESSION_TTL", 10*time.Minute),
		SessionBackend:      getEnv("TOURDESK_SESSION_BACKEND", BackendSQLite),
		ClientTokenDuration: getDurationEnv("TOURDESK_CLIENT_TOKEN_DURATION", 30*24*time.Hour),
		ClientIdleTimeout:   getDurationEnv("TOURDESK_CLIENT_IDLE_TIMEOUT", time.Hour),
		RedisAddr:           getEnv("TOURDESK_REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("TOURDESK_REDIS_PASSWORD", ""),
		RedisDB:             getIntEnv("TOURDESK_REDIS_DB", 0),
		DefaultLanguage:     getEnv("TOURDESK_DEFAULT_LANGUAGE", "es"),
		AdminEmail:          getEnv("TOURDESK_ADMIN_EMAIL", ""),
		AdminPassword:       getEnv("TOURDESK_ADMIN_PASSWORD", ""),
		AdminName:           getEnv("TOURDESK_ADMIN_NAME", "Administrador"),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
