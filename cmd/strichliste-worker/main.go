package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"strichliste/internal/amqp"
	"strichliste/internal/cli"
	gsheet "strichliste/internal/ledger/google"
	applog "strichliste/internal/log"
	"strichliste/internal/storage"
	"strichliste/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(applog.ComponentWorker)

	logger.Info("Starting strichliste-worker")

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err.Error(),
			"path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required; the worker has nothing to mirror without it")
		os.Exit(1)
	}
	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncWorker := worker.NewSyncWorker(repo, sheetsClient, cfg.SyncBatchSize)

	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		// Keep running; the periodic sweep retries.
		logger.Error("Startup sync check failed", applog.FieldError, err.Error())
	}

	// AMQP is optional: without it the worker falls back to the periodic
	// sweep alone.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, relying on periodic sweep", applog.FieldError, err.Error())
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	if amqpClient != nil {
		go func() {
			err := amqpClient.ConsumeSync(ctx, func(msg *amqp.SyncMessage) error {
				return syncWorker.HandleSyncMessage(ctx, msg)
			})
			if err != nil && err != context.Canceled {
				logger.Error("Message consumption failed", applog.FieldError, err.Error())
				cancel()
			}
		}()
	}

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	mirrorTicker := time.NewTicker(24 * time.Hour)
	defer mirrorTicker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := syncWorker.ProcessPending(ctx); err != nil {
					logger.Error("Periodic sync failed", applog.FieldError, err.Error())
				}
			case <-mirrorTicker.C:
				if err := syncWorker.RefreshMirror(ctx); err != nil {
					logger.Error("Periodic mirror refresh failed", applog.FieldError, err.Error())
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
