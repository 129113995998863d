package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"strichliste/internal/backend"
	"strichliste/internal/cli"
	apphttp "strichliste/internal/http"
	applog "strichliste/internal/log"
	"strichliste/internal/services"
	"strichliste/internal/session"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
			}
		}()
	}

	sess := session.New()
	snapshots := services.NewSnapshotService(result.Backend)
	submissions := services.NewSubmissionService(sess, result.Backend, snapshots)

	// Initial load so the first page render has data. Failures are already
	// logged per tab; the kiosk starts with whatever loaded.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	snapshots.Reload(startupCtx)
	startupCancel()

	srv := apphttp.NewServer(":"+cfg.Port, sess, snapshots, submissions, logger.WithComponent(applog.ComponentHTTP))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting strichliste server",
		"port", cfg.Port,
		"backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
