// Package config provides environment-backed configuration for Kassets
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// DataDir holds platform.json and the per-company files.
	DataDir string

	JWTSecret string
	JWTExpiry time.Duration

	// UseCounterIDs switches global ID allocation to the persisted-counter
	// strategy instead of the full-corpus scan.
	UseCounterIDs bool

	SuperAdminPassword string

	CORSAllowedOrigins []string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "5050"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DataDir:            getEnv("KASSETS_DATA_DIR", "database"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpiry:          time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 168)) * time.Hour,
		UseCounterIDs:      getEnv("KASSETS_ID_ALLOCATOR", "scan") == "counter",
		SuperAdminPassword: getEnv("KASSETS_SUPERADMIN_PASSWORD", ""),
		CORSAllowedOrigins: splitString(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// splitString splits a comma-separated string into a slice
func splitString(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
