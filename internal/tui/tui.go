// Package tui implements the root Bubble Tea model for zleads.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zleads/internal/lead"
)

type viewID int

const (
	viewPreview viewID = iota
	viewDetail
	viewGenerate
	viewHistory
)

// accent colors the cursor and the app name.
var accent = lipgloss.Color("#E8A33D")

// Deps are the operations the TUI runs outside its own state.
type Deps struct {
	Generate GenerateFunc
	Runs     RunsFunc
}

// navigateMsg tells the root model to switch views.
type navigateMsg struct {
	view viewID
}

// Model is the root TUI model.
type Model struct {
	ctx     context.Context
	version string
	output  string
	gen     *lead.Generator
	deps    Deps
	page    int

	active   viewID
	preview  previewModel
	detail   detailModel
	generate generateModel
	history  historyModel

	// terminal dimensions
	width  int
	height int
}

// New creates the root TUI model. gen fills preview pages; output names the
// file deps.Generate writes.
func New(ctx context.Context, version, output string, gen *lead.Generator, deps Deps) Model {
	m := Model{
		ctx:     ctx,
		version: version,
		output:  output,
		gen:     gen,
		deps:    deps,
		active:  viewPreview,
	}
	m.page = 1
	m.preview = newPreviewModel(m.sampleLeads(), m.page)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case navigateMsg:
		return m.navigate(msg.view)

	case newPageMsg:
		m.page++
		m.preview = newPreviewModel(m.sampleLeads(), m.page)
		return m, nil

	case openLeadMsg:
		m.detail = newDetailModel(msg.lead)
		m.active = viewDetail
		return m, tea.ClearScreen

	case generateDoneMsg:
		// delivered even if the user quit the view mid-run
		m.generate, _ = m.generate.Update(msg)
		return m, nil
	}

	return m.updateActive(msg)
}

func (m Model) sampleLeads() []lead.Lead {
	leads := make([]lead.Lead, pageSize)
	for i := range leads {
		leads[i] = m.gen.Generate()
	}
	return leads
}

func (m Model) navigate(view viewID) (tea.Model, tea.Cmd) {
	switch view {
	case viewPreview:
		m.active = viewPreview
		return m, tea.ClearScreen

	case viewGenerate:
		if m.deps.Generate == nil {
			return m, nil
		}
		ctx, cancel := context.WithCancel(m.ctx)
		m.generate = newGenerateModel(m.output, cancel)
		m.active = viewGenerate
		return m, tea.Batch(tea.ClearScreen, m.generate.spinner.Tick, generateCmd(ctx, m.deps.Generate))

	case viewHistory:
		var h historyModel
		if m.deps.Runs != nil {
			h = newHistoryModel(m.deps.Runs())
		}
		m.history = h
		m.active = viewHistory
		return m, tea.ClearScreen
	}

	return m, nil
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case viewPreview:
		m.preview, cmd = m.preview.Update(msg)
	case viewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case viewGenerate:
		m.generate, cmd = m.generate.Update(msg)
	case viewHistory:
		m.history, cmd = m.history.Update(msg)
	}

	return m, cmd
}

func (m Model) View() string {
	var content string
	switch m.active {
	case viewPreview:
		content = m.preview.View()
	case viewDetail:
		content = m.detail.View()
	case viewGenerate:
		content = m.generate.View()
	case viewHistory:
		content = m.history.View()
	}

	header := m.header()
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(helpFor(m.active))

	return "\n" + header + "\n" + sep + "\n" + content + "\n" + footer + "\n"
}

func (m Model) header() string {
	name := lipgloss.NewStyle().Foreground(accent).Bold(true).Render("zleads")
	return "  " + name + " " + zstyle.MutedText.Render(m.version) + "  " + zstyle.Title.Render(viewTitle(m.active))
}

// viewTitle returns the display title for each view.
func viewTitle(id viewID) string {
	switch id {
	case viewPreview:
		return "Preview"
	case viewDetail:
		return "Lead"
	case viewGenerate:
		return "Generate"
	case viewHistory:
		return "History"
	}
	return ""
}

// helpFor returns keybinding pairs for each view's footer.
func helpFor(id viewID) []zstyle.HelpPair {
	switch id {
	case viewPreview:
		return []zstyle.HelpPair{
			{Key: "j/k", Desc: "navigate"},
			{Key: "enter", Desc: "copy row"},
			{Key: "o", Desc: "open"},
			{Key: "n", Desc: "new page"},
			{Key: "g", Desc: "generate file"},
			{Key: "h", Desc: "history"},
			{Key: "q", Desc: "quit"},
		}
	case viewDetail:
		return []zstyle.HelpPair{
			{Key: "enter", Desc: "copy field"},
			{Key: "c", Desc: "copy row"},
			{Key: "esc", Desc: "back"},
			{Key: "q", Desc: "quit"},
		}
	case viewGenerate:
		return []zstyle.HelpPair{
			{Key: "esc", Desc: "stop/back"},
			{Key: "q", Desc: "quit"},
		}
	case viewHistory:
		return []zstyle.HelpPair{
			{Key: "j/k", Desc: "navigate"},
			{Key: "enter", Desc: "copy path"},
			{Key: "esc", Desc: "back"},
			{Key: "q", Desc: "quit"},
		}
	}
	return nil
}
