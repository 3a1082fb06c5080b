// Package cmd - catalog management commands
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"billboard-pricing/adapters/storage"
	"billboard-pricing/core/catalog"
	"billboard-pricing/internal/config"
	"billboard-pricing/internal/errors"
	"billboard-pricing/internal/logging"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Pricing catalog management (operator only)",
	Long: `Catalog management commands.

The pricing catalog is a JSON or HCL document; the installation catalog is
JSON. push and pull move documents between files and the configured store.`,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a catalog file or the stored catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogValidate,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarize the stored catalogs",
	Args:  cobra.NoArgs,
	RunE:  runCatalogShow,
}

var catalogPushCmd = &cobra.Command{
	Use:   "push <file>",
	Short: "Validate a catalog file and write it to the configured store",
	Long: `Validate a catalog file and write it to the configured store.

This command:
  1. Reads and decodes the file (.json or .hcl)
  2. Runs every validation rule; warnings are printed, errors abort
  3. Writes the catalog as JSON, replacing the stored one

Running servers pick the new catalog up on restart or through
PUT /v1/catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogPush,
}

var catalogPullCmd = &cobra.Command{
	Use:   "pull <file>",
	Short: "Write the stored catalog to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogPull,
}

var (
	catalogInstallation bool
	catalogDryRun       bool
	catalogConfirm      bool
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogValidateCmd, catalogShowCmd, catalogPushCmd, catalogPullCmd)

	catalogCmd.PersistentFlags().BoolVarP(&catalogInstallation, "installation", "i", false, "operate on the installation catalog")
	catalogPushCmd.Flags().BoolVar(&catalogDryRun, "dry-run", false, "validate only, no store writes")
	catalogPushCmd.Flags().BoolVar(&catalogConfirm, "confirm", false, "skip the confirmation prompt")
}

// catalogDocument is either kind of catalog, decoded and validated
type catalogDocument struct {
	pricing      *catalog.PricingCatalog
	installation *catalog.InstallationCatalog
}

func (d catalogDocument) validate() catalog.ValidationReport {
	if d.installation != nil {
		return catalog.ValidateInstallation(d.installation)
	}
	return d.pricing.Validate(catalog.DefaultValidationRules())
}

// printFindings lists blocking findings, then warnings
func printFindings(out io.Writer, report catalog.ValidationReport) {
	for _, f := range multierr.Errors(report.Err()) {
		fmt.Fprintf(out, "  ✗ %s\n", f)
	}
	for _, f := range report.Warnings {
		fmt.Fprintf(out, "  ⚠ %s\n", f)
	}
}

func (d catalogDocument) hash() string {
	if d.installation != nil {
		return d.installation.Hash()
	}
	return d.pricing.Seal().Hash()
}

func readCatalogFile(path string) (catalogDocument, error) {
	if catalogInstallation {
		c, err := catalog.LoadInstallationFile(path)
		return catalogDocument{installation: c}, err
	}
	c, err := catalog.LoadPricingFile(path)
	return catalogDocument{pricing: c}, err
}

func readStoredCatalog(ctx context.Context, store storage.Store) (catalogDocument, error) {
	if catalogInstallation {
		c, err := storage.LoadInstallation(ctx, store)
		return catalogDocument{installation: c}, err
	}
	c, err := storage.LoadPricing(ctx, store)
	return catalogDocument{pricing: c}, err
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	var doc catalogDocument
	var err error
	if len(args) == 1 {
		doc, err = readCatalogFile(args[0])
	} else {
		store, serr := openStore(ctx)
		if serr != nil {
			return serr
		}
		defer store.Close()
		doc, err = readStoredCatalog(ctx, store)
	}
	if err != nil {
		return err
	}

	report := doc.validate()
	if !report.OK() {
		fmt.Fprintf(out, "✗ %d validation finding(s), %d warning(s):\n", len(report.Errors), len(report.Warnings))
		printFindings(out, report)
		return errors.Newf(errors.TypeCatalog, "catalog has %d validation finding(s)", len(report.Errors))
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintf(out, "⚠ %d warning(s):\n", len(report.Warnings))
		printFindings(out, report)
	}
	fmt.Fprintf(out, "✓ Catalog is valid (hash %s)\n", truncateHash(doc.hash()))
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if p, err := storage.LoadPricing(ctx, store); err == nil {
		printPricingSummary(out, p.Seal())
	} else {
		fmt.Fprintf(out, "Pricing catalog: unavailable (%v)\n", err)
	}
	fmt.Fprintln(out)
	if inst, err := storage.LoadInstallation(ctx, store); err == nil {
		printInstallationSummary(out, inst)
	} else {
		fmt.Fprintf(out, "Installation catalog: unavailable (%v)\n", err)
	}
	return nil
}

func printPricingSummary(out io.Writer, c *catalog.PricingCatalog) {
	stats := c.Stats()
	fmt.Fprintln(out, "Pricing catalog")
	fmt.Fprintf(out, "  Hash:           %s\n", truncateHash(c.Hash()))
	fmt.Fprintf(out, "  Currency:       %s\n", c.Currency)
	fmt.Fprintf(out, "  Default zone:   %s\n", c.DefaultZoneKey())
	fmt.Fprintf(out, "  Zones:          %d\n", stats.Zones)
	fmt.Fprintf(out, "  Sizes:          %d\n", stats.Sizes)
	fmt.Fprintf(out, "  Tier rates:     %d\n", stats.TierRates)
	fmt.Fprintf(out, "  Category rates: %d\n", stats.CategoryRates)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  PACKAGE\tMONTHS\tDISCOUNT")
	for _, p := range c.Packages {
		fmt.Fprintf(tw, "  %s\t%d\t%g%%\n", p.Label, p.Months, p.DiscountPercent)
	}
	tw.Flush()
}

func printInstallationSummary(out io.Writer, c *catalog.InstallationCatalog) {
	fmt.Fprintln(out, "Installation catalog")
	fmt.Fprintf(out, "  Hash:           %s\n", truncateHash(c.Hash()))
	fmt.Fprintf(out, "  Default zone:   %s\n", c.DefaultZoneKey())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ZONE\tMULTIPLIER\tSIZES")
	for _, key := range c.ZoneKeys() {
		z, _ := c.Zone(key)
		fmt.Fprintf(tw, "  %s\t%g\t%d\n", key, z.Multiplier, len(z.Prices))
	}
	tw.Flush()
}

func runCatalogPush(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Fprintf(out, "Catalog file: %s\n", path)
	fmt.Fprintf(out, "Store:        %s\n", config.Get().Storage.Backend)
	fmt.Fprintf(out, "Dry-run:      %t\n\n", catalogDryRun)

	doc, err := readCatalogFile(path)
	if err != nil {
		return err
	}
	report := doc.validate()
	printFindings(out, report)
	if !report.OK() {
		return errors.Wrap(errors.TypeCatalog, "validation failed", report.Err())
	}
	fmt.Fprintf(out, "✓ Validation passed with %d warning(s) (hash %s)\n", len(report.Warnings), truncateHash(doc.hash()))

	if catalogDryRun {
		fmt.Fprintln(out, "✓ DRY-RUN COMPLETED - no store changes made")
		return nil
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if current, err := readStoredCatalog(ctx, store); err == nil && current.hash() == doc.hash() {
		fmt.Fprintln(out, "⚠ The stored catalog already has this content; nothing to do")
		return nil
	}

	if !catalogConfirm && !confirm(cmd, "Replace the stored catalog? Type 'yes' to confirm: ") {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	if doc.installation != nil {
		err = storage.SaveInstallation(ctx, store, doc.installation)
	} else {
		err = storage.SavePricing(ctx, store, doc.pricing)
	}
	if err != nil {
		return err
	}
	logging.Info("catalog pushed", zap.String("file", path), zap.String("hash", doc.hash()))
	fmt.Fprintln(out, "✓ Catalog stored")
	return nil
}

func runCatalogPull(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := readStoredCatalog(ctx, store)
	if err != nil {
		return err
	}

	var data []byte
	if doc.installation != nil {
		data, err = catalog.EncodeInstallationJSON(doc.installation)
	} else {
		data, err = catalog.EncodePricingJSON(doc.pricing)
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.TypeInput, "create output directory", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.TypeInput, "write catalog file", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (hash %s)\n", path, truncateHash(doc.hash()))
	return nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(input)) == "yes"
}

func truncateHash(h string) string {
	if len(h) > 16 {
		return h[:16]
	}
	return h
}
