package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var zoneJSON bool

var zoneCmd = &cobra.Command{
	Use:   "zone",
	Short: "Pricing zone utilities",
}

var zoneResolveCmd = &cobra.Command{
	Use:   "resolve <municipality> [area]",
	Short: "Resolve a municipality to its pricing zone",
	Long: `Resolve a municipality (and optional area) to a pricing zone.

Names are matched exactly, then through catalog aliases; anything else
falls back to the default zone.

Examples:
  billboard-pricing zone resolve مصراتة
  billboard-pricing zone resolve زليتن
  billboard-pricing zone resolve "" "الخمس"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runZoneResolve,
}

func init() {
	zoneResolveCmd.Flags().BoolVar(&zoneJSON, "json", false, "print JSON")

	zoneCmd.AddCommand(zoneResolveCmd)
	rootCmd.AddCommand(zoneCmd)
}

func runZoneResolve(cmd *cobra.Command, args []string) error {
	agg, err := newAggregator(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	area := ""
	if len(args) > 1 {
		area = args[1]
	}
	res := agg.ResolveZone(args[0], area)

	if zoneJSON {
		return printJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s)\n", res.Zone, res.Matched)
	return nil
}
