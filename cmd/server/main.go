// Package main - Entry point for the billboard pricing API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"billboard-pricing/adapters/archive"
	"billboard-pricing/adapters/storage"
	"billboard-pricing/api"
	"billboard-pricing/core/catalog"
	"billboard-pricing/internal/config"
	"billboard-pricing/internal/errors"
	"billboard-pricing/internal/logging"
)

var version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// a missing .env is normal
	_ = godotenv.Load()

	configPath := flag.String("config", "", "config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return errors.Config("load config", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		return errors.Config("initialize logging", err)
	}
	defer logging.Sync()
	logger := logging.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	holder := catalog.NewHolder(nil, nil)
	if err := loadCatalogs(ctx, store, holder, logger); err != nil {
		return err
	}

	quotes, err := archive.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer quotes.Close()

	srv := api.NewServer(cfg, holder,
		api.WithStore(store),
		api.WithArchive(quotes),
		api.WithVersion(version),
		api.WithLogger(logger),
	)

	logger.Info("starting billboard pricing server",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("archive", cfg.Archive.Backend),
		zap.Bool("catalog_writes", cfg.Server.InternalToken != ""))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadCatalogs fills holder from the store. A missing catalog starts the
// server empty so one can be uploaded; an unreadable one is fatal.
func loadCatalogs(ctx context.Context, store storage.Store, holder *catalog.Holder, logger *zap.Logger) error {
	p, err := storage.LoadPricing(ctx, store)
	switch {
	case errors.IsType(err, errors.TypeNotFound):
		logger.Warn("no pricing catalog stored; starting with an empty catalog", zap.Error(err))
	case err != nil:
		return err
	default:
		logFindings(logger, "pricing", p.Validate(catalog.DefaultValidationRules()))
		holder.SetPricing(p)
		logger.Info("pricing catalog loaded",
			zap.String("hash", p.Hash()),
			zap.Int("zones", len(p.ZoneKeys())))
	}

	inst, err := storage.LoadInstallation(ctx, store)
	switch {
	case errors.IsType(err, errors.TypeNotFound), errors.IsType(err, errors.TypeConfig):
		logger.Warn("no installation catalog; installation will be unavailable", zap.Error(err))
	case err != nil:
		return err
	default:
		logFindings(logger, "installation", catalog.ValidateInstallation(inst))
		holder.SetInstallation(inst)
		logger.Info("installation catalog loaded",
			zap.String("hash", inst.Hash()),
			zap.Int("zones", len(inst.ZoneKeys())))
	}
	return nil
}

// logFindings logs a stored catalog's findings. The stored catalog is served
// either way; blocking findings only stop uploads.
func logFindings(logger *zap.Logger, kind string, report catalog.ValidationReport) {
	for _, finding := range multierr.Errors(report.Err()) {
		logger.Error("catalog finding", zap.String("catalog", kind), zap.Error(finding))
	}
	for _, finding := range report.Warnings {
		logger.Warn("catalog finding", zap.String("catalog", kind), zap.Error(finding))
	}
}
