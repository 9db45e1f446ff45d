package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nezhar/voicevault/internal/asr"
	"github.com/nezhar/voicevault/internal/blob"
	"github.com/nezhar/voicevault/internal/config"
	"github.com/nezhar/voicevault/internal/download"
	"github.com/nezhar/voicevault/internal/entry"
	"github.com/nezhar/voicevault/internal/logger"
	"github.com/nezhar/voicevault/internal/media"
	"github.com/nezhar/voicevault/internal/transcribe"
	"github.com/nezhar/voicevault/internal/watcher"
	"github.com/nezhar/voicevault/internal/worker"
	"github.com/nezhar/voicevault/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "VoiceVault Worker")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Mode: %s", cfg.Worker.Mode)
	log.Info(ctx, "Poll interval: %ds, batch size: %d, max retries: %d",
		cfg.Worker.Interval, cfg.Worker.BatchSize, cfg.Worker.MaxRetries)

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	// Connect to the entry database
	db, err := openDatabase(ctx, cfg.Database.DSN)
	if err != nil {
		log.Error(ctx, "Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer db.Close()
	store := entry.New(db)

	// Connect to blob storage
	blobStore, err := blob.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Error(ctx, "Failed to connect to blob storage: %v", err)
		os.Exit(1)
	}

	// Build the collaborator for the configured mode
	exec := executor.New()
	var (
		downloader  download.Downloader
		transcriber transcribe.Service
	)
	switch cfg.Worker.Mode {
	case config.ModeDownload:
		downloader = download.New(cfg, blobStore, exec, log)
	case config.ModeASR:
		provider, err := asr.New(cfg.ASR, log)
		if err != nil {
			log.Error(ctx, "Failed to build ASR provider: %v", err)
			os.Exit(1)
		}
		log.Info(ctx, "ASR provider: %s (model: %s)", provider.Name(), cfg.ASR.Model)
		toolchain := media.New(exec, log)
		transcriber = transcribe.New(cfg, blobStore, toolchain, toolchain, provider, log)
	}

	w := worker.New(cfg, store, downloader, transcriber, log)

	// Optional inbox watcher feeds upload entries in download mode
	var inbox watcher.Watcher
	if cfg.Worker.Mode == config.ModeDownload && cfg.Ingest.WatchInbox {
		inbox, err = watcher.New(cfg.Paths.Inbox, store, blobStore, log, 2)
		if err != nil {
			log.Error(ctx, "Failed to create inbox watcher: %v", err)
			os.Exit(1)
		}
		defer inbox.Stop()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start the worker loop and the optional watcher
	errChan := make(chan error, 2)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()
	if inbox != nil {
		go func() {
			if err := inbox.Start(ctx); err != nil && err != context.Canceled {
				errChan <- err
			}
		}()
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "VoiceVault worker is ready!")
	if inbox != nil {
		log.Info(ctx, "Watching inbox: %s", cfg.Paths.Inbox)
	}
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Worker error: %v", err)
	}

	// Graceful shutdown: finish the entry in flight, then stop everything
	log.Info(ctx, "Shutting down gracefully...")
	w.Stop()
	cancel()

	log.Info(ctx, "VoiceVault worker stopped")
}

// openDatabase connects to Postgres and verifies the connection.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Paths.Spool}
	if cfg.Ingest.WatchInbox {
		dirs = append(dirs, cfg.Paths.Inbox)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
