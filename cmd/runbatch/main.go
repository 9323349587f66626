package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"warepulse.io/warepulse/config"
	"warepulse.io/warepulse/core"
	"warepulse.io/warepulse/engine"
	"warepulse.io/warepulse/ingest/timeclock"
	"warepulse.io/warepulse/store"
	"warepulse.io/warepulse/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	startStr := flag.String("start", "", "Start date (yyyy-MM-dd). Defaults to yesterday.")
	endStr := flag.String("end", "", "End date (yyyy-MM-dd). Defaults to start.")
	employeesStr := flag.String("employees", "", "Comma-separated employee ids. Defaults to all active.")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	start := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if *startStr != "" {
		start, err = utils.ParseDate(*startStr)
		if err != nil {
			log.Error("invalid start date", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	end := start
	if *endStr != "" {
		end, err = utils.ParseDate(*endStr)
		if err != nil {
			log.Error("invalid end date", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var employees []int32
	if *employeesStr != "" {
		for _, part := range strings.Split(*employeesStr, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				log.Error("invalid employee id", slog.String("value", part))
				os.Exit(1)
			}
			employees = append(employees, int32(id))
		}
	}

	db, err := core.ConnectDB(cfg.DSN, 10)
	if err != nil {
		log.Error("failed to connect to DB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	ledger := store.New(db)

	policies, err := ledger.LoadPolicySet(ctx)
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

	result, err := runner.Run(ctx, engine.RunOptions{
		StartDate: start,
		EndDate:   end,
		Employees: employees,
	})
	if err != nil {
		log.Error("batch run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Processed: %d, Errored: %d\n", result.Processed, result.Errored)
	for _, e := range result.Errors {
		fmt.Printf("  employee %d on %s: %s\n", e.EmployeeID, e.Date.Format(utils.DateLayout), e.Err)
	}
	if result.Errored > 0 {
		os.Exit(1)
	}
}
