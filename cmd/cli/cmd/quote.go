package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"billboard-pricing/core/output"
	"billboard-pricing/core/quote"
	"billboard-pricing/core/types"
	"billboard-pricing/internal/config"
	"billboard-pricing/internal/errors"
	"billboard-pricing/internal/logging"
)

var (
	quoteBillboards       string
	quoteMonths           int
	quoteCustomerName     string
	quoteCustomerCompany  string
	quoteCustomerPhone    string
	quoteCategory         string
	quoteInstallation     bool
	quoteCategoryDiscount bool
	quoteFormat           string
	quoteOutput           string
)

// quoteCmd generates a quote for a list of billboards
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Generate a quote for a set of billboards",
	Long: `Generate a customer quote for the billboards listed in a JSON file.

The file holds an array of billboards:
  [{"id": "MS-01", "size": "5x13", "municipality": "مصراتة", "priceTier": "A"}]

Examples:
  billboard-pricing quote --billboards boards.json --months 3
  billboard-pricing quote --billboards boards.json --months 6 --installation --format json
  billboard-pricing quote --billboards boards.json --months 12 --format pdf -o quote.pdf`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteBillboards, "billboards", "b", "", "JSON file with the billboards to quote [REQUIRED]")
	quoteCmd.Flags().IntVarP(&quoteMonths, "months", "m", 1, "rental duration in months")
	quoteCmd.Flags().StringVar(&quoteCustomerName, "customer-name", "Walk-in customer", "customer name")
	quoteCmd.Flags().StringVar(&quoteCustomerCompany, "customer-company", "", "customer company")
	quoteCmd.Flags().StringVar(&quoteCustomerPhone, "customer-phone", "", "customer phone")
	quoteCmd.Flags().StringVar(&quoteCategory, "category", "individual", "customer category (individual, company, marketer)")
	quoteCmd.Flags().BoolVar(&quoteInstallation, "installation", false, "add installation prices")
	quoteCmd.Flags().BoolVar(&quoteCategoryDiscount, "category-discount", false, "apply the customer category discount")
	quoteCmd.Flags().StringVarP(&quoteFormat, "format", "f", "", "output format (cli, json, pdf); default from config")
	quoteCmd.Flags().StringVarP(&quoteOutput, "output", "o", "", "write to file instead of stdout")
	quoteCmd.MarkFlagRequired("billboards")

	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()

	formatName := quoteFormat
	if formatName == "" {
		formatName = cfg.Output.DefaultFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	billboards, err := readBillboards(quoteBillboards)
	if err != nil {
		return err
	}

	agg, err := newAggregator(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	q, err := agg.GenerateQuote(quote.Request{
		Customer: types.Customer{
			Name:     quoteCustomerName,
			Company:  quoteCustomerCompany,
			Phone:    quoteCustomerPhone,
			Category: types.CustomerCategory(quoteCategory),
		},
		Billboards: billboards,
		Months:     quoteMonths,
		Options: quote.Options{
			IncludeInstallation:   quoteInstallation,
			ApplyCategoryDiscount: quoteCategoryDiscount,
		},
	})
	if err != nil {
		return err
	}

	registry := output.NewRegistry(output.Options{
		CompanyName: cfg.Output.CompanyName,
		FontPath:    cfg.Output.PDFFontPath,
		Logger:      logging.L(),
	})
	formatter, err := registry.Get(format)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), quoteOutput, func(w io.Writer) error {
		return formatter.Render(w, q)
	})
}

func readBillboards(path string) ([]types.Billboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "read billboards file", err)
	}
	var billboards []types.Billboard
	if err := json.Unmarshal(data, &billboards); err != nil {
		return nil, errors.Wrap(errors.TypeInput, "parse billboards file", err)
	}
	return billboards, nil
}

// writeOutput renders to path, or to stdout when path is empty
func writeOutput(stdout io.Writer, path string, render func(io.Writer) error) error {
	if path == "" {
		return render(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.TypeInput, "create output file", err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logging.Info("quote written", zap.String("path", path))
	return nil
}
