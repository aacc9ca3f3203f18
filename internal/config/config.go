package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// StorageCredentials is the JSON credential blob for the blob store,
// supplied out-of-band via the STORAGE_CREDENTIALS environment variable.
type StorageCredentials struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
}

type Config struct {
	// Storage holds blob store credentials; its absence is fatal.
	Storage StorageCredentials

	// Database
	DatabasePath string

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	// Best-effort: a missing .env just means plain environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath: getEnv("DATABASE_PATH", "nursery.db"),
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
	}

	creds := os.Getenv("STORAGE_CREDENTIALS")
	if creds == "" {
		return nil, fmt.Errorf("STORAGE_CREDENTIALS is required")
	}
	if err := json.Unmarshal([]byte(creds), &cfg.Storage); err != nil {
		return nil, fmt.Errorf("invalid STORAGE_CREDENTIALS: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Storage.URL == "" {
		return fmt.Errorf("storage credentials: url is required")
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage credentials: key is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage credentials: bucket is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
