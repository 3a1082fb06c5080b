// Package output renders quotes for people and machines.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"billboard-pricing/core/quote"
	"billboard-pricing/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatPDF is a printable quote document
	FormatPDF Format = "pdf"
)

// ParseFormat returns the format named by s
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCLI, FormatJSON, FormatPDF:
		return f, nil
	case "", "table", "text":
		return FormatCLI, nil
	default:
		return "", errors.Inputf("unknown output format %q (cli, json, pdf)", s)
	}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// ContentType is the MIME type of the rendered output
	ContentType() string

	// Render writes the quote to w
	Render(w io.Writer, q *quote.Quote) error
}

// Options configure the built-in formatters
type Options struct {
	// CompanyName is printed in document headers
	CompanyName string

	// FontPath is a UTF-8 TrueType font for PDF output. It is required for
	// Arabic text; without it the PDF uses a Latin-1 core font and logs a
	// warning when a quote carries text it cannot draw.
	FontPath string

	// Logger receives renderer warnings; nil uses the global logger
	Logger *zap.Logger
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates a registry holding the built-in formatters
func NewRegistry(opts Options) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(NewTextFormatter(opts))
	r.Register(NewJSONFormatter())
	r.Register(NewPDFFormatter(opts))
	return r
}

// Register adds or replaces a formatter
func (r *Registry) Register(f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[f.Format()] = f
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.Inputf("no formatter for %q", format)
	}
	return f, nil
}

// Formats lists the registered formats
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Money formats an amount with thousands separators and the currency code
func Money(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if currency == "" {
		return sign + b.String()
	}
	return sign + b.String() + " " + currency
}
