// Package cmd - estimate command
package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"billboard-pricing/core/output"
	"billboard-pricing/core/quote"
	"billboard-pricing/core/types"
)

var (
	estimateSize          string
	estimateMunicipality  string
	estimateArea          string
	estimateCategory      string
	estimateUnits         int
	estimateUnit          string
	estimatePackageMonths int
	estimateInstallation  bool
	estimateJSON          bool
)

// estimateCmd runs the simplified customer-type calculator
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate a single billboard rental for a customer type",
	Long: `Estimate one billboard rental from the flat customer-type rate.

The rate is scaled by the rental units (months, or days prorated over a
30-day month), then the package discount, the category discount and
installation are applied in that order.

Examples:
  billboard-pricing estimate --size 5x13 --municipality مصراتة --category company --units 3
  billboard-pricing estimate --size 4x12 --municipality طرابلس --category marketer --units 10 --unit day
  billboard-pricing estimate --size 5x13 --municipality مصراتة --category individual --units 6 --package-months 6 --installation`,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateSize, "size", "s", "", "billboard size, e.g. 5x13 [REQUIRED]")
	estimateCmd.Flags().StringVar(&estimateMunicipality, "municipality", "", "municipality name")
	estimateCmd.Flags().StringVar(&estimateArea, "area", "", "area name within the municipality")
	estimateCmd.Flags().StringVar(&estimateCategory, "category", "individual", "customer category (individual, company, marketer)")
	estimateCmd.Flags().IntVarP(&estimateUnits, "units", "n", 1, "number of rental units")
	estimateCmd.Flags().StringVar(&estimateUnit, "unit", "month", "rental unit (month, day)")
	estimateCmd.Flags().IntVar(&estimatePackageMonths, "package-months", 0, "apply the discount of this package")
	estimateCmd.Flags().BoolVar(&estimateInstallation, "installation", false, "add the installation price")
	estimateCmd.Flags().BoolVar(&estimateJSON, "json", false, "print JSON")
	estimateCmd.MarkFlagRequired("size")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	agg, err := newAggregator(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	est, err := agg.Estimate(quote.EstimateRequest{
		Size:                types.Size(estimateSize),
		Municipality:        estimateMunicipality,
		Area:                estimateArea,
		Category:            types.CustomerCategory(estimateCategory),
		Units:               estimateUnits,
		Unit:                quote.Unit(estimateUnit),
		PackageMonths:       estimatePackageMonths,
		IncludeInstallation: estimateInstallation,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if estimateJSON {
		return printJSON(out, est)
	}

	currency := string(est.Currency)
	fmt.Fprintf(out, "Zone:     %s (%s)\n", est.Zone.Zone, est.Zone.Matched)
	fmt.Fprintf(out, "Rate:     %s / month (%s)\n", output.Money(est.Rate.Price, currency), est.Rate.Source)
	fmt.Fprintf(out, "Units:    %d %s\n\n", est.Units, est.Unit)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "STEP\tPERCENT\tCHANGE\tAMOUNT\t")
	for _, step := range est.Steps {
		pct := ""
		if step.Percent != 0 {
			pct = fmt.Sprintf("%g%%", step.Percent)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", step.Step, pct, output.Money(step.Delta, currency), output.Money(step.Amount, currency))
	}
	tw.Flush()

	fmt.Fprintf(out, "\nTotal:    %s\n", output.Money(est.Total, currency))
	for _, w := range est.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	return nil
}
