package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"billboard-pricing/core/quote"
	"billboard-pricing/internal/errors"
)

// TextFormatter renders an aligned table for terminals
type TextFormatter struct {
	companyName string
}

// NewTextFormatter creates a text formatter
func NewTextFormatter(opts Options) *TextFormatter {
	return &TextFormatter{companyName: opts.CompanyName}
}

// Format returns the format type
func (f *TextFormatter) Format() Format { return FormatCLI }

// ContentType returns the MIME type
func (f *TextFormatter) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes the quote as a table
func (f *TextFormatter) Render(w io.Writer, q *quote.Quote) error {
	cur := string(q.Currency)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if f.companyName != "" {
		fmt.Fprintln(tw, f.companyName)
	}
	fmt.Fprintf(tw, "Quote %s\n", q.ID)
	fmt.Fprintf(tw, "Customer:\t%s (%s)\n", q.Customer.Name, q.Customer.Category)
	fmt.Fprintf(tw, "Package:\t%s (%.4g%% discount)\n", q.Package.Label, q.Package.DiscountPercent)
	fmt.Fprintf(tw, "Created:\t%s\n", q.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(tw, "Valid until:\t%s\n", q.ValidUntil.Format("2006-01-02"))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "BILLBOARD\tSIZE\tZONE\tTIER\tBASE/MO\tFINAL/MO\tINSTALL\tLINE TOTAL\tSOURCE")
	for _, it := range q.Items {
		install := Money(it.InstallationPrice, "")
		if !it.InstallationAvailable && it.InstallationPrice == 0 {
			install = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.BillboardID, it.Size, it.Zone, it.Tier,
			Money(it.BasePrice, ""), Money(it.FinalPrice, ""), install,
			Money(it.LineTotal, ""), it.PriceSource)
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Subtotal:\t%s\n", Money(q.Subtotal, cur))
	fmt.Fprintf(tw, "Discount:\t-%s\n", Money(q.TotalDiscount, cur))
	fmt.Fprintf(tw, "Installation:\t%s\n", Money(q.InstallationTotal, cur))
	if q.TaxPercent > 0 {
		fmt.Fprintf(tw, "Tax (%.4g%%):\t%s\n", q.TaxPercent, Money(q.Tax, cur))
	}
	fmt.Fprintf(tw, "Total:\t%s\n", Money(q.Total, cur))

	if len(q.Warnings) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Warnings:")
		for _, warn := range q.Warnings {
			fmt.Fprintf(tw, "  - %s\n", warn)
		}
	}

	if err := tw.Flush(); err != nil {
		return errors.Render("write quote table", err)
	}
	return nil
}
