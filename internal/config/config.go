package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	LogLevel     string
	DatabasePath string

	JWTSecret string
	CookieKey []byte // 32-byte AES key, decoded from COOKIE_KEY hex

	LeadPrefix     string
	PropertyPrefix string

	MediaBucket    string
	MediaRegion    string
	MediaEndpoint  string
	MediaPathStyle bool

	PendingTTLDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnvAsInt("PORT", 8080),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabasePath:   getEnv("DATABASE_PATH", "./data/listings.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		LeadPrefix:     getEnv("LEAD_PREFIX", "lead"),
		PropertyPrefix: getEnv("PROPERTY_PREFIX", "prop"),
		MediaBucket:    getEnv("MEDIA_BUCKET", ""),
		MediaRegion:    getEnv("MEDIA_REGION", ""),
		MediaEndpoint:  getEnv("MEDIA_ENDPOINT", ""),
		MediaPathStyle: getEnvAsBool("MEDIA_PATH_STYLE", false),
		PendingTTLDays: getEnvAsInt("PENDING_TTL_DAYS", 0),
	}

	key, err := hex.DecodeString(getEnv("COOKIE_KEY", ""))
	if err != nil {
		return nil, fmt.Errorf("COOKIE_KEY must be hex encoded: %w", err)
	}
	cfg.CookieKey = key

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.CookieKey) != 32 {
		return fmt.Errorf("COOKIE_KEY must be 64 hex characters (32 bytes), got %d bytes", len(c.CookieKey))
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
