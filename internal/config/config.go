// Package config loads service settings from environment variables, with
// optional .env file support for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Dataset source: URL wins when both are set; the file path is the
	// well-known local location of the export.
	DatasetURL  string
	DatasetPath string

	FetchTimeout time.Duration
	ChunkSize    int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is merged first when
// present; missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	chunkSize, err := parseChunkSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatasetURL:      os.Getenv("DATASET_URL"),
		DatasetPath:     envOrDefault("DATASET_PATH", "data/carbon-intensity.csv"),
		FetchTimeout:    fetchTimeout,
		ChunkSize:       chunkSize,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DatasetURL == "" && cfg.DatasetPath == "" {
		return nil, errors.New("one of DATASET_URL or DATASET_PATH is required")
	}

	return cfg, nil
}

// GetLogLevel satisfies observability.LoggerConfig.
func (c *Config) GetLogLevel() string { return c.LogLevel }

// GetLogFormat satisfies observability.LoggerConfig.
func (c *Config) GetLogFormat() string { return c.LogFormat }

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseChunkSize() (int, error) {
	raw := envOrDefault("CHUNK_SIZE", "2000")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 100000 {
		return 0, fmt.Errorf("invalid CHUNK_SIZE: %q (want 1..100000)", raw)
	}
	return n, nil
}
