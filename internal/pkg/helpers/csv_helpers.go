package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVWriter writes a header row followed by records, guarding against formula injection
type CSVWriter struct {
	w    *csv.Writer
	cols int
}

// NewCSVWriter writes the header immediately and returns a writer for the data rows
func NewCSVWriter(out io.Writer, header []string) (*CSVWriter, error) {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	return &CSVWriter{w: w, cols: len(header)}, nil
}

// Write appends one record. The record must have as many fields as the header.
func (c *CSVWriter) Write(record []string) error {
	if len(record) != c.cols {
		return fmt.Errorf("csv record has %d fields, want %d", len(record), c.cols)
	}
	safe := make([]string, len(record))
	for i, field := range record {
		safe[i] = SanitizeCSVField(field)
	}
	return c.w.Write(safe)
}

// Flush flushes buffered rows and reports any write error
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// SanitizeCSVField prefixes values that spreadsheets would evaluate as formulas
func SanitizeCSVField(field string) string {
	if field == "" {
		return field
	}
	if strings.ContainsRune("=+-@\t\r", rune(field[0])) {
		return "'" + field
	}
	return field
}
