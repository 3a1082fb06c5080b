package output

import (
	"fmt"
	"io"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"billboard-pricing/core/quote"
	"billboard-pricing/internal/errors"
	"billboard-pricing/internal/logging"
)

// PDFFormatter renders a printable quote document. Arabic zone and customer
// names need a UTF-8 font (output.pdf_font_path); the core font only covers
// Latin-1.
type PDFFormatter struct {
	companyName string
	fontPath    string
	logger      *zap.Logger
}

// NewPDFFormatter creates a PDF formatter
func NewPDFFormatter(opts Options) *PDFFormatter {
	return &PDFFormatter{
		companyName: opts.CompanyName,
		fontPath:    opts.FontPath,
		logger:      logging.OrGlobal(opts.Logger),
	}
}

// Format returns the format type
func (f *PDFFormatter) Format() Format { return FormatPDF }

// ContentType returns the MIME type
func (f *PDFFormatter) ContentType() string { return "application/pdf" }

// Render writes the quote as a PDF
func (f *PDFFormatter) Render(w io.Writer, q *quote.Quote) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Quote %s", q.ID), true)

	family := "Helvetica"
	text := pdf.UnicodeTranslatorFromDescriptor("")
	if f.fontPath != "" {
		family = "QuoteFont"
		pdf.AddUTF8Font(family, "", f.fontPath)
		text = func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return errors.Render("load PDF font", err).WithContext("font", f.fontPath)
	}
	if f.fontPath == "" {
		if sample, ok := firstNonLatin(f.companyName, q); ok {
			f.logger.Warn("quote PDF has non-Latin text but no pdf_font_path is configured; it will not render",
				zap.String("quote_id", q.ID),
				zap.String("text", sample))
		}
	}

	cur := string(q.Currency)
	pdf.AddPage()

	pdf.SetFont(family, "", 16)
	if f.companyName != "" {
		pdf.Cell(0, 10, text(f.companyName))
		pdf.Ln(9)
	}
	pdf.Cell(0, 10, text("Billboard rental quote"))
	pdf.Ln(10)

	pdf.SetFont(family, "", 10)
	for _, line := range []string{
		fmt.Sprintf("Quote: %s", q.ID),
		fmt.Sprintf("Customer: %s (%s)", q.Customer.Name, q.Customer.Category),
		fmt.Sprintf("Package: %s, %.4g%% discount", q.Package.Label, q.Package.DiscountPercent),
		fmt.Sprintf("Date: %s   Valid until: %s", q.CreatedAt.Format("02.01.2006"), q.ValidUntil.Format("02.01.2006")),
	} {
		pdf.Cell(0, 6, text(line))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	widths := []float64{28, 18, 40, 12, 26, 26, 20, 20}
	headers := []string{"Billboard", "Size", "Zone", "Tier", "Base/mo", "Final/mo", "Install", "Line"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont(family, "", 9)
	for _, it := range q.Items {
		cells := []string{
			trim(it.BillboardID, 14),
			string(it.Size),
			trim(it.Zone, 22),
			string(it.Tier),
			Money(it.BasePrice, ""),
			Money(it.FinalPrice, ""),
			Money(it.InstallationPrice, ""),
			Money(it.LineTotal, ""),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, text(c), "", 0, "L", false, 0, "")
		}
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont(family, "", 11)
	totals := [][2]string{
		{"Subtotal", Money(q.Subtotal, cur)},
		{"Discount", "-" + Money(q.TotalDiscount, cur)},
		{"Installation", Money(q.InstallationTotal, cur)},
	}
	if q.TaxPercent > 0 {
		totals = append(totals, [2]string{fmt.Sprintf("Tax (%.4g%%)", q.TaxPercent), Money(q.Tax, cur)})
	}
	totals = append(totals, [2]string{"Total", Money(q.Total, cur)})
	for _, t := range totals {
		pdf.CellFormat(40, 7, t[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, t[1], "", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	if len(q.Warnings) > 0 {
		pdf.Ln(4)
		pdf.SetFont(family, "", 8)
		for _, warn := range q.Warnings {
			pdf.MultiCell(0, 4, text("* "+warn), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return errors.Render("write quote PDF", err)
	}
	return nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// firstNonLatin returns the first quote text the core font cannot draw
func firstNonLatin(company string, q *quote.Quote) (string, bool) {
	texts := []string{company, q.Customer.Name, q.Package.Label}
	for _, it := range q.Items {
		texts = append(texts, it.BillboardID, it.Zone)
	}
	texts = append(texts, q.Warnings...)
	for _, s := range texts {
		for _, r := range s {
			if r > unicode.MaxLatin1 {
				return s, true
			}
		}
	}
	return "", false
}
