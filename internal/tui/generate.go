package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zleads/internal/history"
	"github.com/zarlcorp/zleads/internal/job"
)

// GenerateFunc writes the configured file and records the run.
type GenerateFunc func(ctx context.Context) (job.Result, history.Run, error)

// generateModel shows a spinner while the file is written, then the result.
type generateModel struct {
	spinner spinner.Model
	output  string
	started time.Time
	running bool
	cancel  context.CancelFunc

	result job.Result
	run    history.Run
	err    error
}

// generateDoneMsg carries the outcome of a generation.
type generateDoneMsg struct {
	result job.Result
	run    history.Run
	err    error
}

func newGenerateModel(output string, cancel context.CancelFunc) generateModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = zstyle.Highlight
	return generateModel{
		spinner: sp,
		output:  output,
		started: time.Now(),
		running: true,
		cancel:  cancel,
	}
}

// generateCmd runs fn off the UI goroutine.
func generateCmd(ctx context.Context, fn GenerateFunc) tea.Cmd {
	return func() tea.Msg {
		res, run, err := fn(ctx)
		return generateDoneMsg{result: res, run: run, err: err}
	}
}

func (m generateModel) Update(msg tea.Msg) (generateModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generateDoneMsg:
		m.running = false
		m.result = msg.result
		m.run = msg.run
		m.err = msg.err
		if m.cancel != nil {
			m.cancel()
		}
		return m, nil
	}

	return m, nil
}

func (m generateModel) handleKey(msg tea.KeyMsg) (generateModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	if m.running {
		// esc stops the run; the done message brings the result back
		if key.Matches(msg, zstyle.KeyBack) && m.cancel != nil {
			m.cancel()
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyBack) || key.Matches(msg, zstyle.KeyEnter) {
		return m, func() tea.Msg { return navigateMsg{view: viewPreview} }
	}

	return m, nil
}

func (m generateModel) View() string {
	s := "\n"

	if m.running {
		s += fmt.Sprintf("  %s writing %s\n", m.spinner.View(), m.output)
		s += "\n  " + zstyle.MutedText.Render("started "+humanize.Time(m.started)) + "\n"
		return s
	}

	if m.err != nil {
		msg := m.err.Error()
		if errors.Is(m.err, context.Canceled) {
			msg = "cancelled"
		}
		s += "  " + zstyle.StatusErr.Render("✗ "+msg) + "\n"
		if m.result.Rows > 0 {
			s += "  " + zstyle.MutedText.Render(fmt.Sprintf("%s rows left in %s", humanize.Comma(m.result.Rows), m.output)) + "\n"
		}
		return s
	}

	s += "  " + zstyle.StatusOK.Render(m.result.Summary()) + "\n\n"
	s += fmt.Sprintf("    %s %s\n", zstyle.MutedText.Render("rows "), humanize.Comma(m.result.Rows))
	s += fmt.Sprintf("    %s %s\n", zstyle.MutedText.Render("size "), humanize.Bytes(uint64(m.result.Bytes)))
	s += fmt.Sprintf("    %s %d\n", zstyle.MutedText.Render("seed "), m.run.Seed)
	if m.run.ID != "" {
		s += fmt.Sprintf("    %s %s\n", zstyle.MutedText.Render("run  "), m.run.ShortID())
	}
	return s
}
