package output

import (
	"encoding/json"
	"io"

	"billboard-pricing/core/quote"
	"billboard-pricing/internal/errors"
)

// JSONFormatter renders indented JSON
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{} }

// Format returns the format type
func (f *JSONFormatter) Format() Format { return FormatJSON }

// ContentType returns the MIME type
func (f *JSONFormatter) ContentType() string { return "application/json" }

// Render writes the quote as JSON
func (f *JSONFormatter) Render(w io.Writer, q *quote.Quote) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(q); err != nil {
		return errors.Render("encode quote JSON", err)
	}
	return nil
}
