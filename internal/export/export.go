// Package export writes leads to an output stream as CSV or XLSX.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/zarlcorp/zleads/internal/lead"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// MaxXLSXRows is the number of data rows an XLSX sheet can hold below
// the header.
const MaxXLSXRows = 1_048_576 - 1

// ErrUnknownFormat is returned for a format other than csv or xlsx.
var ErrUnknownFormat = errors.New("unknown format")

// Sink receives leads in order. The header is written on creation.
// Close flushes buffered output but does not close the underlying writer.
type Sink interface {
	Write(l lead.Lead) error
	Close() error
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w %q (use csv or xlsx)", ErrUnknownFormat, s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// New returns a sink for format writing to w.
func New(format Format, w io.Writer) (Sink, error) {
	switch format {
	case FormatCSV:
		return NewCSV(w)
	case FormatXLSX:
		return NewXLSX(w)
	}
	return nil, fmt.Errorf("new sink: %w %q", ErrUnknownFormat, format)
}
