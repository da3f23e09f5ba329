package config

import (
	"os"
	"strconv"

	"owlbench/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Database DatabaseConfig
	Server   ServerConfig
	Paths    PathConfig
}

// AnalysisConfig holds the statistical engine settings
type AnalysisConfig struct {
	// SignificanceLevel is applied uniformly to normality, variance and
	// hypothesis decisions.
	SignificanceLevel float64
}

// DatabaseConfig holds database connection settings. URL may be empty, in
// which case analysis runs are archived in memory only.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// PathConfig holds file system paths used by the collaborator adapters
type PathConfig struct {
	MemoryMetricsFile string
	ExportDir         string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Analysis: AnalysisConfig{
			SignificanceLevel: getEnvFloatOrDefault("SIGNIFICANCE_LEVEL", 0.05),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Paths: PathConfig{
			MemoryMetricsFile: getEnvOrDefault("MEMORY_METRICS_FILE", ""),
			ExportDir:         getEnvOrDefault("EXPORT_DIR", "."),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Analysis.SignificanceLevel <= 0 || config.Analysis.SignificanceLevel >= 1 {
		return errors.ConfigInvalid("SIGNIFICANCE_LEVEL must be in (0, 1)")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
