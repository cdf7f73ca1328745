package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP API
	ListenAddr string

	// Resource paths
	DataDir      string
	PaytablePath string // optional YAML paytable override

	// Optional round archiver
	ElasticsearchURL string

	// Environment
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := &Config{
		ListenAddr:       getEnvWithDefault("LISTEN_ADDR", ":8080"),
		Environment:      getEnvWithDefault("ENVIRONMENT", "development"),
		DataDir:          getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		PaytablePath:     os.Getenv("PAYTABLE_PATH"),
		ElasticsearchURL: os.Getenv("ELASTICSEARCH_URL"),
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// DatabasePath returns the path to the sqlite database file
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "arcade.db")
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns the environment variable value or a default
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
