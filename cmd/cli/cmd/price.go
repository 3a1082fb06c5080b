package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"billboard-pricing/core/output"
	"billboard-pricing/core/pricing"
	"billboard-pricing/core/types"
	"billboard-pricing/internal/errors"
)

var (
	priceSize         string
	priceMunicipality string
	priceArea         string
	priceTier         string
	priceCategory     string
	priceMonths       int
	priceJSON         bool
)

// priceCmd looks up a single rate
var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Look up the monthly price of one billboard size",
	Long: `Look up a monthly rate by tier (A/B, bucketed by duration) or by
customer category (flat rate).

Examples:
  billboard-pricing price --size 5x13 --municipality مصراتة --tier A --months 3
  billboard-pricing price --size 4x12 --municipality زليتن --category company`,
	RunE: runPrice,
}

func init() {
	priceCmd.Flags().StringVarP(&priceSize, "size", "s", "", "billboard size, e.g. 5x13 [REQUIRED]")
	priceCmd.Flags().StringVar(&priceMunicipality, "municipality", "", "municipality name")
	priceCmd.Flags().StringVar(&priceArea, "area", "", "area name within the municipality")
	priceCmd.Flags().StringVar(&priceTier, "tier", "", "price tier (A or B)")
	priceCmd.Flags().StringVar(&priceCategory, "category", "", "customer category (individual, company, marketer)")
	priceCmd.Flags().IntVarP(&priceMonths, "months", "m", 1, "rental duration in months")
	priceCmd.Flags().BoolVar(&priceJSON, "json", false, "print JSON")
	priceCmd.MarkFlagRequired("size")
	priceCmd.MarkFlagsMutuallyExclusive("tier", "category")
	priceCmd.MarkFlagsOneRequired("tier", "category")

	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	if priceMonths <= 0 {
		return errors.Inputf("months must be positive, got %d", priceMonths)
	}
	sel, err := selectorFromFlags(priceTier, priceCategory)
	if err != nil {
		return err
	}

	agg, err := newAggregator(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	res := agg.ResolveZone(priceMunicipality, priceArea)
	lookup := agg.PriceFor(types.Size(priceSize), res.Zone, sel, priceMonths)

	out := cmd.OutOrStdout()
	if priceJSON {
		return printJSON(out, map[string]interface{}{
			"zone":     res,
			"selector": sel.String(),
			"months":   priceMonths,
			"lookup":   lookup,
		})
	}

	fmt.Fprintf(out, "Zone:     %s (%s)\n", res.Zone, res.Matched)
	fmt.Fprintf(out, "Selector: %s\n", sel)
	if lookup.Bucket > 0 {
		fmt.Fprintf(out, "Bucket:   %d months\n", lookup.Bucket)
	}
	fmt.Fprintf(out, "Price:    %s / month\n", output.Money(lookup.Price, string(agg.Currency())))
	fmt.Fprintf(out, "Source:   %s (%s)\n", lookup.Source, lookup.Outcome)
	if lookup.Reason != "" {
		fmt.Fprintf(out, "Note:     %s\n", lookup.Reason)
	}
	return nil
}

func selectorFromFlags(tier, category string) (pricing.Selector, error) {
	if tier != "" {
		t, ok := types.ParseTier(tier)
		if !ok {
			return pricing.Selector{}, errors.Inputf("unknown price tier %q", tier)
		}
		return pricing.ByTier(t), nil
	}
	c, ok := types.ParseCategory(category)
	if !ok {
		return pricing.Selector{}, errors.Inputf("unknown customer category %q", category)
	}
	return pricing.ByCategory(c), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
