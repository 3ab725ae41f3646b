package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"maccounting/internal/config"
	"maccounting/internal/convert"
	apphttp "maccounting/internal/http"
	applog "maccounting/internal/log"
	"maccounting/internal/storage"
	"maccounting/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store := openStore(cfg, logger.WithComponent(applog.ComponentStorage))

	srv := apphttp.NewServer(":"+cfg.Port, store, cfg.APIBaseURL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Fire-and-forget startup sweep: convert any PDFs waiting in the input
	// directory. Nothing else observes its completion.
	if conv, err := convert.NewGeminiConverter(ctx, cfg.GeminiModel); err != nil {
		logger.Warn("Startup conversion disabled", "error", err)
	} else {
		worker.NewConvertWorker(conv, cfg.InputDir, store.Root(), cfg.ConvertTimeout).Start(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting m-accounting server", "port", cfg.Port, "data_dir", store.Root())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// openStore opens the configured data directory, falling back to the local
// one when the primary is not writable (e.g. no mounted volume in dev).
func openStore(cfg *config.Config, logger *applog.Logger) *storage.JSONStore {
	store, err := storage.NewJSONStore(cfg.DataDir)
	if err == nil {
		return store
	}
	logger.Warn("Primary data directory unavailable, falling back",
		"error", err, "data_dir", cfg.DataDir, "fallback", cfg.FallbackDataDir)

	store, err = storage.NewJSONStore(cfg.FallbackDataDir)
	if err != nil {
		logger.Error("Failed to initialize record store", "error", err, "path", cfg.FallbackDataDir)
		os.Exit(1)
	}
	return store
}
