package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zleads/internal/lead"
)

// pageSize is the number of leads on one preview page.
const pageSize = 10

// previewModel shows a page of generated leads.
type previewModel struct {
	leads  []lead.Lead
	page   int
	cursor int
	flash  string
}

// newPageMsg asks the root model for a fresh page of leads.
type newPageMsg struct{}

// openLeadMsg asks the root model to show one lead field by field.
type openLeadMsg struct {
	lead lead.Lead
}

func newPreviewModel(leads []lead.Lead, page int) previewModel {
	return previewModel{leads: leads, page: page}
}

func (m previewModel) Update(msg tea.Msg) (previewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m previewModel) handleKey(msg tea.KeyMsg) (previewModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	switch msg.String() {
	case "n":
		return m, func() tea.Msg { return newPageMsg{} }
	case "g":
		return m, func() tea.Msg { return navigateMsg{view: viewGenerate} }
	case "h":
		return m, func() tea.Msg { return navigateMsg{view: viewHistory} }
	}

	if len(m.leads) == 0 {
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.leads)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		if err := copyText(m.leads[m.cursor].Line()); err != nil {
			m.flash = "copy: " + err.Error()
			return m, clearFlashAfter()
		}
		m.flash = "copied row!"
		return m, clearFlashAfter()
	}

	if msg.String() == "o" {
		l := m.leads[m.cursor]
		return m, func() tea.Msg { return openLeadMsg{lead: l} }
	}

	return m, nil
}

func (m previewModel) View() string {
	cursorStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)

	s := "\n"
	s += "  " + zstyle.MutedText.Render(fmt.Sprintf("page %d", m.page)) + "\n\n"

	if len(m.leads) == 0 {
		s += "  " + zstyle.MutedText.Render("no leads") + "\n\n\n"
		return s
	}

	head := fmt.Sprintf("%-22s %-14s %-11s %-32s %s", "name", "phone", "cpf", "email", "tags")
	s += "    " + zstyle.Subtitle.Render(head) + "\n"

	for i, l := range m.leads {
		line := fmt.Sprintf("%-22s %-14s %-11s %-32s %s",
			truncate(l.Name, 22), l.Phone, l.CPF, truncate(l.Email, 32), l.Tags)

		if i == m.cursor {
			s += "  " + cursorStyle.Render("▸") + " " + line + "\n"
		} else {
			s += "    " + line + "\n"
		}
	}

	s += "\n"

	// always reserve a line for flash to prevent layout shift
	if m.flash != "" {
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	return s
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
