// Package job runs one generation: header, N leads, flush, timing.
package job

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zarlcorp/zleads/internal/export"
	"github.com/zarlcorp/zleads/internal/lead"
)

const (
	// checkEvery is how many rows pass between context checks.
	checkEvery = 4096
	// reportEvery is how many rows pass between progress updates.
	reportEvery = 10_000
)

// Progress receives the number of rows written since the last call.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

// Params describes a run.
type Params struct {
	Path   string
	Format export.Format
	Rows   int64
}

// Result summarizes a finished run.
type Result struct {
	Path    string
	Format  export.Format
	Rows    int64
	Bytes   int64
	Elapsed time.Duration
}

// Summary returns the completion line printed after a run.
func (r Result) Summary() string {
	return fmt.Sprintf("✅ File %s generated successfully! Elapsed: %.2f seconds", r.Path, r.Elapsed.Seconds())
}

// Run creates the output file and writes p.Rows leads from gen into it.
// On error the partial file is left in place.
func Run(ctx context.Context, p Params, gen *lead.Generator, progress Progress) (Result, error) {
	start := time.Now()

	if dir := filepath.Dir(p.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("run: create dir: %w", err)
		}
	}

	f, err := os.Create(p.Path)
	if err != nil {
		return Result{}, fmt.Errorf("run: %w", err)
	}

	cw := &countingWriter{w: f}
	rows, err := Write(ctx, cw, p.Format, p.Rows, gen, progress)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("run: close %s: %w", p.Path, cerr)
	}

	res := Result{
		Path:    p.Path,
		Format:  p.Format,
		Rows:    rows,
		Bytes:   cw.n,
		Elapsed: time.Since(start),
	}
	return res, err
}

// Write streams the header and rows leads to w in format, returning how
// many leads were written. The context is checked between rows.
func Write(ctx context.Context, w io.Writer, format export.Format, rows int64, gen *lead.Generator, progress Progress) (int64, error) {
	sink, err := export.New(format, w)
	if err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}

	var (
		written int64
		pending int
	)
	for written < rows {
		if written%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return written, fmt.Errorf("write: stopped after %d rows: %w", written, err)
			}
		}

		if err := sink.Write(gen.Generate()); err != nil {
			return written, fmt.Errorf("write: row %d: %w", written+1, err)
		}
		written++
		pending++

		if pending == reportEvery {
			report(progress, pending)
			pending = 0
		}
	}

	if err := sink.Close(); err != nil {
		return written, fmt.Errorf("write: %w", err)
	}
	report(progress, pending)

	return written, nil
}

func report(p Progress, n int) {
	if p == nil || n == 0 {
		return
	}
	// redraw errors are ignored
	_ = p.Add(n)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
