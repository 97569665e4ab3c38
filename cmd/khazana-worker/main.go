package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"khazana/internal/amqp"
	"khazana/internal/config"
	"khazana/internal/core"
	"khazana/internal/sheets"
	gsheet "khazana/internal/sheets/google"
	"khazana/internal/sheets/memory"
	"khazana/internal/store"
	"khazana/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting khazana-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}

	// The worker reads the same backend the server writes
	backend, cleanup, err := store.NewFactory(logger).Create(store.Config{
		Type:          store.BackendType(cfg.DataBackend),
		DataDirectory: cfg.DataDir,
		DBPath:        cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("Storage cleanup error", "error", err)
		}
	}()

	// Mirror target. Without a spreadsheet the worker still drains the
	// queue into an in-memory mirror, useful for local runs.
	var mirror sheets.LedgerMirror
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		mirror = memory.New()
		logger.Info("Google Sheets disabled - mirroring to memory (set GOOGLE_SPREADSHEET_ID)")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mirrorWorker := worker.NewMirrorWorker(backend, mirror, core.DefaultPartition())

	// Catch up on anything published while the worker was down
	logger.Info("Performing startup sync...")
	startupCtx, cancel := context.WithTimeout(ctx, time.Minute)
	if err := mirrorWorker.StartupSync(startupCtx); err != nil {
		logger.Error("Startup sync failed", "error", err)
		// Don't exit - continue with normal operation
	}
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- amqpClient.ConsumeRecordChanges(ctx, func(msg *amqp.RecordChangeMessage) error {
			return mirrorWorker.HandleChange(ctx, msg)
		})
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Worker shutdown complete")
}
