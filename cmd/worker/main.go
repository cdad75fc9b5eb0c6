package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/toolsascode/revmig/internal/bootstrap"
	"github.com/toolsascode/revmig/internal/config"
	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/worker"
	"github.com/toolsascode/revmig/migrations"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.Queue.Enabled {
		logger.Fatalf("Queue is not enabled. Set REVMIG_QUEUE_ENABLED=true to use the worker")
	}

	rt, err := bootstrap.Open(cfg, migrations.GlobalRegistry)
	if err != nil {
		logger.Fatalf("Failed to initialize: %v", err)
	}
	defer func() { _ = rt.Close() }()

	if cfg.Revisions.Watch {
		if err := rt.Loader.StartWatching(rt.Executor.SetRegistry); err != nil {
			logger.Warnf("Failed to watch %s: %v", cfg.Revisions.Dir, err)
		}
	}

	q, err := bootstrap.NewQueue(cfg)
	if err != nil {
		logger.Fatalf("Failed to create queue: %v", err)
	}

	// the worker runs jobs itself; no queue is set on its executor
	w := worker.NewWorker(rt.Executor, q)

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := w.Start(ctx); err != nil {
			logger.Errorf("Worker error: %v", err)
			cancel()
		}
	}()

	logger.Info("Migration worker started. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
	case <-ctx.Done():
	}
	logger.Info("Shutting down worker...")

	cancel()
	// Stop closes the queue
	if err := w.Stop(); err != nil {
		logger.Errorf("Error stopping worker: %v", err)
	}

	logger.Info("Worker stopped")
}
