package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zleads/internal/lead"
)

// leadField is a labeled column of a lead.
type leadField struct {
	label string
	value string
}

// detailModel shows one lead field by field.
type detailModel struct {
	lead   lead.Lead
	fields []leadField
	cursor int
	flash  string
}

// flashMsg clears the flash after a timeout.
type flashMsg struct{}

func newDetailModel(l lead.Lead) detailModel {
	return detailModel{lead: l, fields: leadFields(l)}
}

func leadFields(l lead.Lead) []leadField {
	values := l.Fields()
	fields := make([]leadField, len(lead.Header))
	for i, h := range lead.Header {
		fields[i] = leadField{label: h, value: values[i]}
	}
	return fields
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m detailModel) handleKey(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return navigateMsg{view: viewPreview} }
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		return m.copy(m.fields[m.cursor].value, "copied!")
	}

	if msg.String() == "c" {
		return m.copy(m.lead.Line(), "copied row!")
	}

	return m, nil
}

func (m detailModel) copy(text, done string) (detailModel, tea.Cmd) {
	if err := copyText(text); err != nil {
		m.flash = "copy: " + err.Error()
		return m, clearFlashAfter()
	}
	m.flash = done
	return m, clearFlashAfter()
}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}

func (m detailModel) View() string {
	s := "\n"

	for i, f := range m.fields {
		label := zstyle.MutedText.Render(fmt.Sprintf("%-6s", f.label))
		value := f.value
		if value == "" {
			value = zstyle.MutedText.Render("(none)")
		}
		if i == m.cursor {
			s += zstyle.ActiveBorder.Render(fmt.Sprintf("  > %s %s", label, value)) + "\n"
		} else {
			s += fmt.Sprintf("    %s %s\n", label, value)
		}
	}

	if tags := m.lead.TagList(); len(tags) > 0 {
		s += "\n    " + zstyle.MutedText.Render(fmt.Sprintf("%d tags", len(tags))) + "\n"
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
