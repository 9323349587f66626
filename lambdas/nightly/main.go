package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"warepulse.io/warepulse/config"
	"warepulse.io/warepulse/core"
	"warepulse.io/warepulse/engine"
	"warepulse.io/warepulse/ingest/timeclock"
	"warepulse.io/warepulse/store"
)

// handler recomputes yesterday's scores for all active employees. The run
// is idempotent, so a retried invocation is harmless.
func handler(ctx context.Context) (string, error) {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	paramName := os.Getenv("CONFIG_PARAMETER")
	if paramName == "" {
		paramName = "warepulse-config"
	}

	cfg, err := config.LoadFromSSM(ctx, paramName)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	db, err := core.ConnectDB(cfg.DSN, 10)
	if err != nil {
		return "", fmt.Errorf("failed to connect to DB: %w", err)
	}

	ledger := store.New(db)
	policies, err := ledger.LoadPolicySet(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load role policies: %w", err)
	}

	client := timeclock.NewClient(cfg.Timeclock.BaseURL, cfg.Timeclock.Token)
	shifts, err := timeclock.NewAdapter(client, cfg.Timeclock.Timezone, cfg.Timeclock.Source)
	if err != nil {
		return "", fmt.Errorf("failed to build timeclock adapter: %w", err)
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

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	result, err := runner.Run(ctx, engine.RunOptions{
		StartDate: yesterday,
		EndDate:   yesterday,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("processed=%d errored=%d", result.Processed, result.Errored), nil
}

func main() {
	lambda.Start(handler)
}
