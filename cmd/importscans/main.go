package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"warepulse.io/warepulse/config"
	"warepulse.io/warepulse/core"
	"warepulse.io/warepulse/infrastructure/filesystem"
	"warepulse.io/warepulse/ingest/scans"
	"warepulse.io/warepulse/store"
)

// importscans loads a scanner CSV export (local file or S3 object) into
// the activity ledger. Re-importing the same export is harmless: rows are
// deduplicated on (source, external ref).
func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	filePath := flag.String("file", "", "Local CSV export to import")
	bucket := flag.String("bucket", "", "S3 bucket holding the export")
	key := flag.String("key", "", "S3 key of the export")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	var reader io.Reader
	switch {
	case *filePath != "":
		f, err := os.Open(*filePath)
		if err != nil {
			log.Error("failed to open export", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		reader = f
	case *bucket != "" && *key != "":
		var buf bytes.Buffer
		if err := filesystem.ReadFile(ctx, *bucket, *key, &buf); err != nil {
			log.Error("failed to read export from S3", slog.String("error", err.Error()))
			os.Exit(1)
		}
		reader = &buf
	default:
		fmt.Fprintln(os.Stderr, "either -file or -bucket/-key is required")
		os.Exit(2)
	}

	loc, err := time.LoadLocation(cfg.Scans.Timezone)
	if err != nil {
		log.Error("invalid scans timezone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	windows, err := scans.ParseScanCSV(reader, loc, time.Duration(cfg.Scans.DefaultWindowMinutes)*time.Minute)
	if err != nil {
		log.Error("failed to parse export", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := core.ConnectDB(cfg.DSN, 10)
	if err != nil {
		log.Error("failed to connect to DB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	inserted, err := store.New(db).RecordActivityWindows(ctx, windows)
	if err != nil {
		log.Error("failed to record windows", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Parsed %d windows, inserted %d new\n", len(windows), inserted)
}
