package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"khazana/internal/amqp"
	"khazana/internal/config"
	"khazana/internal/core"
	apphttp "khazana/internal/http"
	"khazana/internal/ledger"
	applog "khazana/internal/log"
	"khazana/internal/printer"
	"khazana/internal/report"
	"khazana/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig()).Logger
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Persistence backend
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

	// Mirror bus is optional, the ledger works standalone without it
	var publisher ledger.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("AMQP mirror bus connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP mirror bus disabled - no AMQP_URL provided")
	}

	svc := ledger.NewService(backend, publisher)

	partition := core.DefaultPartition()
	builder, err := report.NewBuilder(partition)
	if err != nil {
		logger.Error("Failed to initialize report builder", "error", err)
		os.Exit(1)
	}

	surfaceCfg := printer.DefaultSurfaceConfig()
	surfaceCfg.Mode = cfg.PrintMode
	if cfg.PrintCommand != "" {
		surfaceCfg.SpoolCommand = strings.Fields(cfg.PrintCommand)
	}
	if cfg.ViewerCmd != "" {
		surfaceCfg.ViewerCommand = strings.Fields(cfg.ViewerCmd)
	}
	// Font warm-up needs an absolute URL, a served path stays local
	if strings.HasPrefix(cfg.FontURL, "http") {
		surfaceCfg.FontURL = cfg.FontURL
	}
	prn := printer.New(builder, printer.NewSurfaceFactory(surfaceCfg), printer.DefaultConfig(), logger)

	srv := apphttp.NewServer(apphttp.Config{
		Addr:        ":" + cfg.Port,
		OrgTitle:    cfg.OrgTitle,
		OrgSubtitle: cfg.OrgSubtitle,
		FontURL:     cfg.FontURL,
		CacheTTL:    cfg.CacheTTL,
	}, svc, builder, partition, prn)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting khazana server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
