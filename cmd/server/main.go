// Command server runs the fuel price HTTP API: report ingestion trigger,
// gas station search and statistics, health probes, and Prometheus metrics.
//
// Exit codes: 0 = clean shutdown, 1 = startup or shutdown error.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

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
	"github.com/viniciusmartins/fuelmap-backend/internal/observability"
	"github.com/viniciusmartins/fuelmap-backend/internal/transport/rest"
	"github.com/viniciusmartins/fuelmap-backend/migrations"
)

// Compile-time interface assertions.
var (
	_ sync.LocationRepo = (*location.Repo)(nil)
	_ sync.ProductRepo  = (*product.Repo)(nil)
	_ sync.StationRepo  = (*station.Repo)(nil)
	_ sync.PriceRepo    = (*pricehistory.Repo)(nil)
	_ sync.TxRunner     = (*postgres.TxManager)(nil)
)

func main() {
	// A missing .env is fine; ENV and config.yaml still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting server",
		slog.String("version", app.BuildVersion()),
		slog.String("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)),
	)

	observability.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, migrations.FS); err != nil {
			logger.Error("apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	locationRepo := location.New(pool)
	productRepo := product.New(pool)
	stationRepo := station.New(pool)
	priceRepo := pricehistory.New(pool)

	pipeline := sync.NewPipeline(logger, locationRepo, productRepo, stationRepo, priceRepo, txm,
		sync.Config{BatchSize: cfg.Sync.BatchSize, DryRun: cfg.Sync.DryRun})
	transformer := xlsx.New(logger, xlsx.Config{
		TempDir:     cfg.Sync.TempDir,
		MaxFileSize: cfg.Sync.MaxFileSize,
	})

	router := rest.NewRouter(rest.RouterDeps{
		Log:      logger,
		Health:   rest.NewHealthHandler(pool, app.Version),
		DataSync: rest.NewDataSyncHandler(logger, pipeline, transformer, cfg.Sync),
		Stations: rest.NewStationHandler(logger, stationRepo),
		CORS:     cfg.CORS,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
