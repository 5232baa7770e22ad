// Package cli implements zleads' command-line subcommands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/zarlcorp/zleads/internal/config"
	"github.com/zarlcorp/zleads/internal/export"
	"github.com/zarlcorp/zleads/internal/history"
	"github.com/zarlcorp/zleads/internal/job"
	"github.com/zarlcorp/zleads/internal/lead"
	"github.com/zarlcorp/zleads/internal/verify"
)

const defaultSampleSize = 5

// ErrVerifyFailed is returned when a verified file breaks its format.
var ErrVerifyFailed = errors.New("verification failed")

// CmdGenerate writes cfg.Rows leads to cfg.Output and records the run.
func CmdGenerate(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	progress, done := newProgress(cfg.Rows, stderr)
	res, run, err := Generate(ctx, cfg, progress)
	done()
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, res.Summary())
	fmt.Fprintf(stdout, "  rows: %s  size: %s  seed: %d", humanize.Comma(res.Rows), humanize.Bytes(uint64(res.Bytes)), run.Seed)
	if run.ID != "" {
		fmt.Fprintf(stdout, "  run: %s", run.ShortID())
	}
	fmt.Fprintln(stdout)
	return nil
}

// Generate runs one generation with cfg and records it in history, failed
// runs included. The returned Run has an empty ID when recording failed.
func Generate(ctx context.Context, cfg config.Config, progress job.Progress) (job.Result, history.Run, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = lead.TimeSeed()
	}

	gen, err := cfg.NewGenerator(seed)
	if err != nil {
		return job.Result{}, history.Run{Seed: seed}, err
	}

	slog.Debug("generate", "rows", cfg.Rows, "output", cfg.Output, "format", cfg.Format, "seed", seed)

	res, runErr := job.Run(ctx, job.Params{Path: cfg.Output, Format: cfg.Format, Rows: cfg.Rows}, gen, progress)
	run := record(cfg, seed, res, runErr)
	return res, run, runErr
}

// Runs returns recorded runs, newest first.
func Runs(cfg config.Config) ([]history.Run, error) {
	s, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.List()
}

// record saves the run to history. History is best effort: failures are
// logged and the returned Run has no ID.
func record(cfg config.Config, seed uint64, res job.Result, runErr error) history.Run {
	s, err := history.Open(cfg.HistoryPath())
	if err != nil {
		slog.Warn("history", "err", err)
		return history.Run{Seed: seed}
	}
	defer s.Close()

	r := history.Run{
		Path:        absPath(cfg.Output),
		Format:      string(cfg.Format),
		Rows:        res.Rows,
		Seed:        seed,
		Bytes:       res.Bytes,
		Elapsed:     res.Elapsed,
		EmailDomain: cfg.EmailDomain,
		ValidCPF:    cfg.ValidCPF,
		RealDDD:     cfg.RealDDD,
	}
	if runErr != nil {
		r.Err = runErr.Error()
	}

	saved, err := s.Save(r)
	if err != nil {
		slog.Warn("history", "err", err)
		return r
	}
	return saved
}

// newProgress returns a progress bar on stderr when it is a terminal.
// The returned func finishes the bar.
func newProgress(rows int64, stderr io.Writer) (job.Progress, func()) {
	f, ok := stderr.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || rows == 0 {
		return nil, func() {}
	}

	bar := progressbar.NewOptions64(rows,
		progressbar.OptionSetWriter(f),
		progressbar.OptionSetDescription("generating"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return bar, func() { _ = bar.Finish() }
}

// CmdVerify checks a generated file. Flags: --rows N, --json.
func CmdVerify(path string, args []string, cfg config.Config, stdout io.Writer) error {
	maxTags := cfg.MaxTags
	opts := verify.Options{Domain: cfg.EmailDomain, MaxTags: &maxTags}
	v, ok := flagValue(args, "--rows")
	if !ok && hasFlag(args, "--rows") {
		return errors.New("verify: --rows needs a value")
	}
	if ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("verify: invalid --rows %q", v)
		}
		opts.ExpectRows = n
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	defer f.Close()

	check := verify.Check
	if strings.EqualFold(filepath.Ext(path), export.FormatXLSX.Ext()) {
		check = verify.CheckXLSX
	}

	report, err := check(f, opts)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	if hasFlag(args, "--json") {
		if err := printJSON(stdout, report); err != nil {
			return err
		}
	} else {
		printReport(stdout, path, report)
	}

	if !report.OK() {
		return ErrVerifyFailed
	}
	return nil
}

// CmdSample prints n leads (default 5) as CSV, or JSON with --json.
func CmdSample(args []string, cfg config.Config, stdout io.Writer) error {
	n := defaultSampleSize
	if pos := positional(args); len(pos) > 0 {
		v, err := strconv.Atoi(pos[0])
		if err != nil || v < 0 {
			return fmt.Errorf("sample: invalid count %q", pos[0])
		}
		n = v
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = lead.TimeSeed()
	}
	gen, err := cfg.NewGenerator(seed)
	if err != nil {
		return err
	}

	leads := make([]lead.Lead, n)
	for i := range leads {
		leads[i] = gen.Generate()
	}

	if hasFlag(args, "--json") {
		return printJSON(stdout, leads)
	}

	fmt.Fprintln(stdout, lead.HeaderLine)
	for _, l := range leads {
		fmt.Fprintln(stdout, l.Line())
	}
	return nil
}

// CmdHistory lists recorded runs, newest first.
func CmdHistory(args []string, cfg config.Config, stdout io.Writer) error {
	runs, err := Runs(cfg)
	if err != nil {
		return err
	}

	if hasFlag(args, "--json") {
		return printJSON(stdout, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(stdout, "no recorded runs")
		return nil
	}

	for _, r := range runs {
		status := "ok"
		if r.Err != "" {
			status = "failed"
		}
		fmt.Fprintf(stdout, "  %-8s %-6s %12s %10s %-5s seed=%-20d %s  %s\n",
			r.ShortID(),
			status,
			humanize.Comma(r.Rows),
			humanize.Bytes(uint64(r.Bytes)),
			r.Format,
			r.Seed,
			humanize.Time(r.CreatedAt),
			r.Path,
		)
	}
	return nil
}

// CmdForget deletes a recorded run by ID or unique prefix.
func CmdForget(id string, cfg config.Config, stdout io.Writer) error {
	s, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.Get(id)
	if err != nil {
		return fmt.Errorf("forget: %w", err)
	}
	if err := s.Delete(r.ID); err != nil {
		return fmt.Errorf("forget: %w", err)
	}
	fmt.Fprintf(stdout, "deleted %s\n", r.ShortID())
	return nil
}

func printReport(w io.Writer, path string, r verify.Report) {
	fmt.Fprintf(w, "  file:        %s\n", path)
	fmt.Fprintf(w, "  rows:        %s\n", humanize.Comma(r.Rows))
	fmt.Fprintf(w, "  violations:  %s\n", humanize.Comma(r.ViolationCount))
	fmt.Fprintf(w, "  valid cpf:   %s\n", percent(r.ValidCPF, r.Rows))
	fmt.Fprintf(w, "  valid phone: %s\n", percent(r.ValidPhone, r.Rows))
	fmt.Fprintf(w, "  valid email: %s\n", percent(r.ValidEmail, r.Rows))
	fmt.Fprintf(w, "  importable:  %s\n", percent(r.ImportReady, r.Rows))

	for _, v := range r.Violations {
		fmt.Fprintf(w, "  - %s\n", v)
	}
	if extra := r.ViolationCount - int64(len(r.Violations)); extra > 0 {
		fmt.Fprintf(w, "  ... and %s more\n", humanize.Comma(extra))
	}
}

func percent(n, total int64) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%s (%.1f%%)", humanize.Comma(n), float64(n)*100/float64(total))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}

// flagValue finds "--name value" or "--name=value" in args.
func flagValue(args []string, name string) (string, bool) {
	for i, a := range args {
		if v, ok := strings.CutPrefix(a, name+"="); ok {
			return v, true
		}
		if strings.EqualFold(a, name) && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

// positional returns the arguments that are neither flags nor flag values.
func positional(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--") {
			if a == "--rows" {
				i++
			}
			continue
		}
		out = append(out, a)
	}
	return out
}
