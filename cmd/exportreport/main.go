package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"warepulse.io/warepulse/config"
	"warepulse.io/warepulse/core"
	"warepulse.io/warepulse/report"
	"warepulse.io/warepulse/store"
	"warepulse.io/warepulse/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	startStr := flag.String("start", "", "Start date (yyyy-MM-dd)")
	endStr := flag.String("end", "", "End date (yyyy-MM-dd)")
	outPath := flag.String("out", "scores.xlsx", "Output XLSX path")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *startStr == "" || *endStr == "" {
		fmt.Fprintln(os.Stderr, "-start and -end are required")
		os.Exit(2)
	}

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

	start, err := utils.ParseDate(*startStr)
	if err != nil {
		log.Error("invalid start date", slog.String("error", err.Error()))
		os.Exit(1)
	}
	end, err := utils.ParseDate(*endStr)
	if err != nil {
		log.Error("invalid end date", slog.String("error", err.Error()))
		os.Exit(1)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Error("failed to create output file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer out.Close()

	err = report.WriteDailyScores(context.Background(), store.New(db), start, end, nil, out)
	if err != nil {
		log.Error("failed to export report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\n", *outPath)
}
