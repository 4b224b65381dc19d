package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Report   ReportConfig
	Database DatabaseConfig
	Data     DataConfig
}

// ServerConfig holds API server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ReportConfig holds the HTML report server settings
type ReportConfig struct {
	Port    string
	Enabled bool
}

// DatabaseConfig holds optional postgres settings for sweep persistence.
// An empty URL runs the service without persistence.
type DatabaseConfig struct {
	URL string
}

// DataConfig holds clinical data settings
type DataConfig struct {
	// File is the clinical table (.xlsx or .csv) loaded at startup.
	File string
	// Subtype restricts the population before any sweep runs.
	Subtype string
	// MinGroupSize is the default cohort size gate.
	MinGroupSize int
	// Workers bounds concurrent marker evaluation.
	Workers int
}

// Load reads configuration from the environment, picking up a local .env
// file first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Report: ReportConfig{
			Port:    getEnvOrDefault("REPORT_PORT", "8081"),
			Enabled: getEnvBoolOrDefault("REPORT_ENABLED", true),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Data: DataConfig{
			File:         getEnvOrDefault("CLINICAL_FILE", ""),
			Subtype:      getEnvOrDefault("SUBTYPE", ""),
			MinGroupSize: getEnvIntOrDefault("MIN_GROUP_SIZE", 5),
			Workers:      getEnvIntOrDefault("SWEEP_WORKERS", 4),
		},
	}

	if cfg.Data.MinGroupSize < 1 {
		return nil, fmt.Errorf("MIN_GROUP_SIZE must be positive, got %d", cfg.Data.MinGroupSize)
	}
	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
