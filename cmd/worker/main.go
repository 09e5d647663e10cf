// Command worker relays the MySQL outbox on its own, for deployments that
// run the API with worker.enabled=false.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ordercore/cmd"
	"ordercore/config"
	"ordercore/infrastructure/messaging/kafka"
	"ordercore/infrastructure/persistence/mysql"
	"ordercore/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Worker startup failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Database.Type != "mysql" {
		logger.Info("No outbox without database.type=mysql; exiting")
		return nil
	}

	db, err := mysql.FromAppConfig(cfg.Database).Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	defer func() { _ = mysql.Close(db) }()

	var broker kafka.Writer
	if cfg.Kafka.Enabled {
		w := kafka.NewWriter(cfg.Kafka)
		defer func() { _ = w.Close() }()
		broker = w
	}

	worker, err := cmd.NewOutboxWorker(cfg, db, broker, nil)
	if err != nil {
		return fmt.Errorf("failed to create outbox worker: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Outbox worker starting",
		zap.Duration("poll_interval", cfg.Worker.PollInterval),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Int("max_retries", cfg.Worker.MaxRetries))

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("outbox worker exited with error: %w", err)
	}
	return nil
}
