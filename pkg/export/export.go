// Package export renders tabular documents for download.
package export

import (
	"fmt"
	"strings"
)

// Format identifies an export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts csv or pdf in any case. An empty value means csv.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q", raw)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Table is an ordered grid with a header row. Every row should have len(Headers) cells;
// short rows are padded and long rows truncated.
type Table struct {
	Title    string
	Subtitle string
	Headers  []string
	Rows     [][]string
}

func (t Table) cells(row []string) []string {
	out := make([]string, len(t.Headers))
	copy(out, row)
	return out
}

// Renderer turns a table into bytes.
type Renderer interface {
	Render(table Table) ([]byte, error)
}
