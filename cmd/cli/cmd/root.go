// Package cmd provides the CLI commands for billboard-pricing.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"billboard-pricing/adapters/storage"
	"billboard-pricing/core/catalog"
	"billboard-pricing/core/quote"
	"billboard-pricing/internal/config"
	"billboard-pricing/internal/errors"
	"billboard-pricing/internal/logging"
)

// Version is set at build time with -ldflags
var Version = "0.1.0"

var (
	cfgFile          string
	verbose          bool
	catalogPath      string
	installationPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "billboard-pricing",
	Short: "Price billboard rentals and generate customer quotes",
	Long: `billboard-pricing prices billboard rentals across Libyan pricing zones.

It resolves municipalities to zones, looks up tier and customer-type rates,
applies package and category discounts, adds installation and produces
quotes as tables, JSON or PDF.

Examples:
  billboard-pricing price --size 5x13 --municipality مصراتة --tier A --months 3
  billboard-pricing quote --billboards boards.json --months 6 --format pdf -o quote.pdf
  billboard-pricing catalog validate pricing.hcl`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	err := rootCmd.Execute()
	logging.Sync()
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.billboard-pricing/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "pricing catalog file, bypassing the configured store")
	rootCmd.PersistentFlags().StringVar(&installationPath, "installation-catalog", "", "installation catalog file, bypassing the configured store")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// a missing .env is normal
	_ = godotenv.Load()

	cfg := config.Get()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// openStore returns the catalog store the commands read from. The
// --catalog flags select plain files instead of the configured backend.
func openStore(ctx context.Context) (storage.Store, error) {
	cfg := config.Get()
	if catalogPath == "" && installationPath == "" {
		return storage.Open(ctx, cfg)
	}
	p, inst := catalogPath, installationPath
	if p == "" {
		p = cfg.Pricing.CatalogPath
	}
	if inst == "" {
		inst = cfg.Pricing.InstallationCatalogPath
	}
	return storage.NewFileStore(p, inst), nil
}

// loadCatalogs reads both catalogs. A missing installation catalog is
// tolerated; installation is then reported as unavailable.
func loadCatalogs(ctx context.Context) (*catalog.PricingCatalog, *catalog.InstallationCatalog, error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	p, err := storage.LoadPricing(ctx, store)
	if err != nil {
		return nil, nil, err
	}
	inst, err := storage.LoadInstallation(ctx, store)
	if err != nil {
		if !errors.IsType(err, errors.TypeNotFound) && !errors.IsType(err, errors.TypeConfig) {
			return nil, nil, err
		}
		logging.Debug("no installation catalog", zap.Error(err))
		inst = nil
	}
	return p.Seal(), inst, nil
}

// newAggregator builds an aggregator from the configured catalogs
func newAggregator(ctx context.Context) (*quote.Aggregator, error) {
	p, inst, err := loadCatalogs(ctx)
	if err != nil {
		return nil, err
	}
	cfg := config.Get()
	return quote.NewAggregator(p, inst,
		quote.WithDefaultTier(cfg.Pricing.DefaultTier),
		quote.WithValidityDays(cfg.Pricing.QuoteValidityDays),
		quote.WithTaxPercent(cfg.Pricing.TaxPercent),
	), nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "billboard-pricing version %s\n", Version)
	},
}
