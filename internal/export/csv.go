package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/zarlcorp/zleads/internal/lead"
)

const csvBufferSize = 64 << 10

// CSV writes leads as comma-joined lines with no quoting.
type CSV struct {
	w *bufio.Writer
}

// NewCSV writes the header line to w and returns a CSV sink.
func NewCSV(w io.Writer) (*CSV, error) {
	c := &CSV{w: bufio.NewWriterSize(w, csvBufferSize)}
	if err := c.writeLine(lead.HeaderLine); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return c, nil
}

// Write appends one lead as a line.
func (c *CSV) Write(l lead.Lead) error {
	if err := c.writeLine(l.Line()); err != nil {
		return fmt.Errorf("write lead: %w", err)
	}
	return nil
}

// Close flushes buffered lines.
func (c *CSV) Close() error {
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func (c *CSV) writeLine(s string) error {
	if _, err := c.w.WriteString(s); err != nil {
		return err
	}
	return c.w.WriteByte('\n')
}
