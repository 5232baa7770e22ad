package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/zarlcorp/zleads/internal/lead"
)

const sheetName = "Sheet1"

// XLSX streams leads into the first sheet of a workbook. The workbook is
// serialized to the writer on Close.
type XLSX struct {
	out  io.Writer
	file *excelize.File
	sw   *excelize.StreamWriter
	row  int
}

// NewXLSX starts a workbook with the header in row 1.
func NewXLSX(w io.Writer) (*XLSX, error) {
	f := excelize.NewFile()
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("new xlsx: %w", err)
	}

	x := &XLSX{out: w, file: f, sw: sw}
	if err := x.setRow(lead.Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return x, nil
}

// Write appends one lead as a row.
func (x *XLSX) Write(l lead.Lead) error {
	if x.row > MaxXLSXRows {
		return fmt.Errorf("write lead: sheet full at %d rows", MaxXLSXRows)
	}
	if err := x.setRow(l.Fields()); err != nil {
		return fmt.Errorf("write lead: %w", err)
	}
	return nil
}

// Close flushes the sheet and writes the workbook.
func (x *XLSX) Close() error {
	defer x.file.Close()

	if err := x.sw.Flush(); err != nil {
		return fmt.Errorf("flush xlsx: %w", err)
	}
	if err := x.file.Write(x.out); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func (x *XLSX) setRow(fields []string) error {
	x.row++
	cell, err := excelize.CoordinatesToCellName(1, x.row)
	if err != nil {
		return err
	}

	// cells are written as strings so zero-padded CPFs keep their zeros
	values := make([]any, len(fields))
	for i, f := range fields {
		values[i] = f
	}
	return x.sw.SetRow(cell, values)
}
