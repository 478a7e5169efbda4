// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the service configuration.
type Config struct {
	Port        string
	Environment string
	LogLevel    zerolog.Level

	// ThingSpeak provider.
	ThingSpeakBaseURL string
	ThingSpeakTimeout time.Duration

	// NodesFile optionally replaces the compiled-in node list.
	NodesFile string

	// DashboardTitle is shown in the page header.
	DashboardTitle string

	OTelEnabled  bool
	OTLPEndpoint string
}

// FromEnv reads the configuration from environment variables, applying
// defaults for anything unset.
func FromEnv() (Config, error) {
	env := getEnvOrDefault("APP_ENV", EnvDevelopment)

	defaultLevel := zerolog.InfoLevel
	if env == EnvDevelopment {
		defaultLevel = zerolog.DebugLevel
	}

	var errs []error

	level := defaultLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		parsed, err := zerolog.ParseLevel(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		} else {
			level = parsed
		}
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("THINGSPEAK_TIMEOUT", "5s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("THINGSPEAK_TIMEOUT: %w", err))
	} else if timeout <= 0 {
		errs = append(errs, errors.New("THINGSPEAK_TIMEOUT: must be positive"))
	}

	otelEnabled, err := strconv.ParseBool(getEnvOrDefault("OTEL_ENABLED", "false"))
	if err != nil {
		errs = append(errs, fmt.Errorf("OTEL_ENABLED: %w", err))
	}

	port := getEnvOrDefault("APP_PORT", "8080")
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT: invalid port %q", port))
	}

	cfg := Config{
		Port:              port,
		Environment:       env,
		LogLevel:          level,
		ThingSpeakBaseURL: getEnvOrDefault("THINGSPEAK_BASE_URL", "https://api.thingspeak.com"),
		ThingSpeakTimeout: timeout,
		NodesFile:         os.Getenv("NODES_FILE"),
		DashboardTitle:    getEnvOrDefault("DASHBOARD_TITLE", "Node Dashboard"),
		OTelEnabled:       otelEnabled,
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
