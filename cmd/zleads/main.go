package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zleads/internal/cli"
	"github.com/zarlcorp/zleads/internal/config"
	"github.com/zarlcorp/zleads/internal/history"
	"github.com/zarlcorp/zleads/internal/job"
	"github.com/zarlcorp/zleads/internal/lead"
	"github.com/zarlcorp/zleads/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zleads"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "zleads: %v\n", err)
		_ = app.Close()
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if len(os.Args) > 1 {
		code := runCLI(ctx, cfg, os.Args[1])
		_ = app.Close()
		os.Exit(code)
	}

	if err := runTUI(ctx, cfg); err != nil {
		slog.Error("tui", "err", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, cfg config.Config, cmd string) int {
	args := os.Args[2:]

	var err error
	switch cmd {
	case "version":
		fmt.Printf("zleads %s\n", version)
	case "generate":
		err = cli.CmdGenerate(ctx, cfg, os.Stdout, os.Stderr)
	case "verify":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "usage: zleads verify <file> [--rows N] [--json]")
			return 1
		}
		err = cli.CmdVerify(args[0], args[1:], cfg, os.Stdout)
	case "sample":
		err = cli.CmdSample(args, cfg, os.Stdout)
	case "history":
		err = cli.CmdHistory(args, cfg, os.Stdout)
	case "forget":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "usage: zleads forget <id>")
			return 1
		}
		err = cli.CmdForget(args[0], cfg, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "zleads: unknown command %q\n", cmd)
		return 1
	}

	if err != nil {
		// the report already explains a failed verification
		if !errors.Is(err, cli.ErrVerifyFailed) {
			fmt.Fprintf(os.Stderr, "zleads: %v\n", err)
		}
		return 1
	}
	return 0
}

func runTUI(ctx context.Context, cfg config.Config) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = lead.TimeSeed()
	}
	gen, err := cfg.NewGenerator(seed)
	if err != nil {
		return err
	}

	deps := tui.Deps{
		Generate: func(ctx context.Context) (job.Result, history.Run, error) {
			return cli.Generate(ctx, cfg, nil)
		},
		Runs: func() ([]history.Run, error) {
			return cli.Runs(cfg)
		},
	}

	m := tui.New(ctx, version, cfg.Output, gen, deps)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
