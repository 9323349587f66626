package main

import (
	"context"
	"encoding/base64"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"warepulse.io/warepulse/config"
	"warepulse.io/warepulse/core"
	"warepulse.io/warepulse/engine"
	"warepulse.io/warepulse/ingest/timeclock"
	"warepulse.io/warepulse/store"
	"warepulse.io/warepulse/web/handlers"
	"warepulse.io/warepulse/web/middlewares"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.JWTSecret)
	if err != nil {
		log.Error("failed to decode JWT secret", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := core.ConnectDB(cfg.DSN, 10)
	if err != nil {
		log.Error("failed to connect to DB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ledger := store.New(db)
	if err := ledger.AutoMigrate(); err != nil {
		log.Error("failed to migrate schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	policies, err := ledger.LoadPolicySet(context.Background())
	if err != nil {
		log.Error("failed to load role policies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	client := timeclock.NewClient(cfg.Timeclock.BaseURL, cfg.Timeclock.Token)
	shifts, err := timeclock.NewAdapter(client, cfg.Timeclock.Timezone, cfg.Timeclock.Source)
	if err != nil {
		log.Error("failed to build timeclock adapter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	runner := &engine.Runner{
		Shifts:      shifts,
		Activity:    ledger,
		Directory:   ledger,
		Ledger:      ledger,
		Scores:      ledger,
		Policies:    policies,
		Gap:         cfg.GapPolicy(),
		Log:         log,
		Concurrency: cfg.Batch.Concurrency,
		UnitTimeout: time.Duration(cfg.Batch.UnitTimeoutSeconds) * time.Second,
	}

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	protected := r.Group("/api/v1")
	protected.Use(middlewares.Authentication(jwtSecret))
	handlers.Register(protected, &handlers.Handler{Store: ledger, Runner: runner})

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
