package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zleads/internal/history"
)

// RunsFunc lists recorded runs, newest first.
type RunsFunc func() ([]history.Run, error)

// historyModel lists recorded generation runs.
type historyModel struct {
	runs   []history.Run
	cursor int
	flash  string
	err    error
}

func newHistoryModel(runs []history.Run, err error) historyModel {
	return historyModel{runs: runs, err: err}
}

func (m historyModel) Update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m historyModel) handleKey(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return navigateMsg{view: viewPreview} }
	}

	if len(m.runs) == 0 {
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.runs)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		if err := copyText(m.runs[m.cursor].Path); err != nil {
			m.flash = "copy: " + err.Error()
			return m, clearFlashAfter()
		}
		m.flash = "copied path!"
		return m, clearFlashAfter()
	}

	return m, nil
}

func (m historyModel) View() string {
	cursorStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)

	s := "\n"

	if m.err != nil {
		s += "  " + zstyle.StatusErr.Render("load: "+m.err.Error()) + "\n\n\n"
		return s
	}

	if len(m.runs) == 0 {
		s += "  " + zstyle.MutedText.Render("no recorded runs") + "\n\n\n"
		return s
	}

	for i, r := range m.runs {
		status := zstyle.StatusOK.Render("ok    ")
		if r.Err != "" {
			status = zstyle.StatusErr.Render("failed")
		}
		line := fmt.Sprintf("%-8s %s %12s %9s %-4s %s",
			r.ShortID(),
			status,
			humanize.Comma(r.Rows),
			humanize.Bytes(uint64(r.Bytes)),
			r.Format,
			zstyle.MutedText.Render(humanize.Time(r.CreatedAt)),
		)

		if i == m.cursor {
			s += "  " + cursorStyle.Render("▸") + " " + line + "\n"
		} else {
			s += "    " + line + "\n"
		}
	}

	s += "\n    " + zstyle.MutedText.Render(truncate(m.runs[m.cursor].Path, 72)) + "\n"

	// always reserve a line for flash to prevent layout shift
	if m.flash != "" {
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	return s
}
