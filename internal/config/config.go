package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/simonsobs/mapcat/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port           string
	DBDriver       string
	DBDSN          string
	DepthOneParent string
	Workers        string
	LogLevel       string
	LogFormat      string
}

// Load loads configuration from a .env file (if present) and environment
// variables, with defaults. Variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load(constants.DefaultEnvFile)

	return &Config{
		Port:           getEnv(constants.EnvPort, constants.DefaultPort),
		DBDriver:       getEnv(constants.EnvDBDriver, constants.DefaultDBDriver),
		DBDSN:          getEnv(constants.EnvDBDSN, constants.DefaultDBPath),
		DepthOneParent: getEnv(constants.EnvDepthOneParent, constants.DefaultDepthOneParent),
		Workers:        getEnv(constants.EnvWorkers, strconv.Itoa(constants.DefaultWorkers)),
		LogLevel:       getEnv(constants.EnvLogLevel, constants.DefaultLogLevel),
		LogFormat:      getEnv(constants.EnvLogFormat, constants.DefaultLogFormat),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "MAPCAT_PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("MAPCAT_PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("MAPCAT_PORT must be between 1 and 65535, got: %d", port))
		}
	}

	// Validate DBDriver
	validDrivers := map[string]bool{
		"sqlite": true,
		"pgx":    true,
	}
	if !validDrivers[c.DBDriver] {
		errors = append(errors, fmt.Sprintf("MAPCAT_DB_DRIVER must be one of: sqlite, pgx, got: %s", c.DBDriver))
	}

	// Validate DBDSN
	if c.DBDSN == "" {
		errors = append(errors, "MAPCAT_DB_DSN cannot be empty")
	}

	// Validate DepthOneParent
	if c.DepthOneParent == "" {
		errors = append(errors, "MAPCAT_DEPTH_ONE_PARENT cannot be empty")
	}

	// Validate Workers
	if n, err := strconv.Atoi(c.Workers); err != nil {
		errors = append(errors, fmt.Sprintf("MAPCAT_WORKERS must be a valid number, got: %s", c.Workers))
	} else if n < 1 {
		errors = append(errors, fmt.Sprintf("MAPCAT_WORKERS must be at least 1, got: %d", n))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// WorkerCount returns Workers as an int, falling back to the default when unparsable.
func (c *Config) WorkerCount() int {
	n, err := strconv.Atoi(c.Workers)
	if err != nil || n < 1 {
		return constants.DefaultWorkers
	}
	return n
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}
