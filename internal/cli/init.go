// Package cli consolidates the initialization shared by cmd/strichliste
// and cmd/strichliste-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"strichliste/internal/config"
	applog "strichliste/internal/log"
)

// LoadEnvFile loads the .env file for local development. Errors are ignored
// silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from LOG_FORMAT / LOG_LEVEL and
// installs it as the slog default.
func SetupLogger(cfg *config.Config) *applog.Logger {
	logger := applog.New(applog.Config{
		Component: applog.ComponentApp,
		Handler:   applog.NewHandler(cfg.LogFormat, cfg.LogLevel),
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger := applog.New(applog.Config{Component: applog.ComponentApp})
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}
