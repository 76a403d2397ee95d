// Command sync runs one ANP report ingestion over a CSV or XLSX file and
// prints the processing summary. It is intended for operators and cron
// jobs; the same pipeline is reachable over HTTP via the server binary.
//
// Flags:
//
//	--file         report file: a path, or a bare name inside sync.csv_dir
//	--dry-run      validate and deduplicate without writing to DB
//	--sync-config  path to pipeline YAML config file
//
// Exit codes: 0 = committed (row-level errors are reported in the summary),
// 1 = fatal error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres"
	"github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres/location"
	"github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres/pricehistory"
	"github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres/product"
	"github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres/station"
	"github.com/viniciusmartins/fuelmap-backend/internal/app"
	"github.com/viniciusmartins/fuelmap-backend/internal/app/sync"
	"github.com/viniciusmartins/fuelmap-backend/internal/app/xlsx"
	"github.com/viniciusmartins/fuelmap-backend/internal/config"
)

func main() {
	fileFlag := flag.String("file", "", "report file (.csv or .xlsx)")
	dryRunFlag := flag.Bool("dry-run", false, "validate and deduplicate without writing to DB")
	syncConfigFlag := flag.String("sync-config", "", "path to pipeline YAML config file")
	flag.Parse()

	if *fileFlag == "" {
		log.Fatal("--file is required")
	}

	_ = godotenv.Load()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	syncCfg, err := sync.LoadConfig(*syncConfigFlag)
	if err != nil {
		logger.Error("load sync config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *dryRunFlag {
		syncCfg.DryRun = true
	}

	// Bare names resolve inside the configured report directory.
	path := *fileFlag
	if filepath.Base(path) == path {
		path = filepath.Join(appCfg.Sync.CSVDir, path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	pipeline := sync.NewPipeline(logger,
		location.New(pool), product.New(pool), station.New(pool), pricehistory.New(pool),
		txm, *syncCfg)

	// Spreadsheets are converted to CSV before the run.
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".xlsx" || ext == ".xls" {
		transformer := xlsx.New(logger, xlsx.Config{
			TempDir:     appCfg.Sync.TempDir,
			MaxFileSize: appCfg.Sync.MaxFileSize,
		})
		converted, err := transformer.Convert(path, filepath.Base(path))
		if err != nil {
			logger.Error("spreadsheet conversion failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer transformer.Cleanup(converted.TempFiles...)
		path = converted.CSVPath
	}

	result, err := pipeline.Run(ctx, path)
	if err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println(result.Summary())
}
