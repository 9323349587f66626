package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"warepulse.io/warepulse/config"
	"warepulse.io/warepulse/core"
	"warepulse.io/warepulse/ingest/scans"
	"warepulse.io/warepulse/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := core.ConnectDB(cfg.DSN, 10)
	if err != nil {
		log.Error("failed to connect to DB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	consumer, err := scans.NewConsumer(
		cfg.Scans.Brokers,
		cfg.Scans.Topic,
		cfg.Scans.Group,
		store.New(db),
		cfg.Scans.Timezone,
		log,
	)
	if err != nil {
		log.Error("failed to build scan consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("consuming scan events",
		slog.String("topic", cfg.Scans.Topic),
		slog.String("group", cfg.Scans.Group))

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
