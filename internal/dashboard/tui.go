// Package dashboard renders a live table of pleb's managed issues with
// bubbletea, grounded on the teacher's periodic-tick refresh pattern
// (tickMsg driving a re-fetch every second) simplified down from its
// multi-panel layout to the single table `pleb status --watch` and
// `pleb ui` need.
package dashboard

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Row is one managed issue's display state.
type Row struct {
	IssueNumber int
	Title       string
	State       string
	WindowName  string
}

// Fetcher returns the current snapshot of managed issues. Implemented by
// the CLI layer (reading GitHub labels directly) so this package stays
// free of any dependency on the tracker or orchestrator packages.
type Fetcher func(ctx context.Context) ([]Row, error)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7eb8da"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8b949e"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))

	stateStyles = map[string]lipgloss.Style{
		"ready":        lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e")),
		"provisioning": lipgloss.NewStyle().Foreground(lipgloss.Color("#d4a054")),
		"working":      lipgloss.NewStyle().Foreground(lipgloss.Color("#7eb8da")),
		"waiting":      lipgloss.NewStyle().Foreground(lipgloss.Color("#d48a8a")),
		"done":         lipgloss.NewStyle().Foreground(lipgloss.Color("#7ec699")),
		"finished":     lipgloss.NewStyle().Foreground(lipgloss.Color("#3d4450")),
	}
)

type tickMsg time.Time

type rowsMsg struct {
	rows []Row
	err  error
}

// Model is the bubbletea model backing the dashboard.
type Model struct {
	fetch    Fetcher
	rows     []Row
	err      error
	width    int
	quitting bool
}

// NewModel returns a Model that refreshes from fetch once a second.
func NewModel(fetch Fetcher) Model {
	return Model{fetch: fetch}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.fetch(context.Background())
		return rowsMsg{rows: rows, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), tickCmd())
	case rowsMsg:
		m.rows = msg.rows
		m.err = msg.err
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b []byte
	b = append(b, titleStyle.Render("pleb — managed issues")...)
	b = append(b, '\n', '\n')

	if m.err != nil {
		b = append(b, dimStyle.Render(fmt.Sprintf("refresh failed: %v", m.err))...)
		b = append(b, '\n')
	}

	header := fmt.Sprintf("%-8s %-40s %-14s %s", "ISSUE", "TITLE", "STATE", "WINDOW")
	b = append(b, headerStyle.Render(header)...)
	b = append(b, '\n')

	if len(m.rows) == 0 {
		b = append(b, dimStyle.Render("no managed issues")...)
		b = append(b, '\n')
	}

	for _, r := range m.rows {
		title := r.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		style, ok := stateStyles[r.State]
		if !ok {
			style = dimStyle
		}
		b = append(b, []byte(fmt.Sprintf("#%-7d %-40s ", r.IssueNumber, title))...)
		b = append(b, style.Render(fmt.Sprintf("%-14s", r.State))...)
		b = append(b, []byte(" "+r.WindowName)...)
		b = append(b, '\n')
	}

	b = append(b, '\n')
	b = append(b, helpStyle.Render("q: quit")...)
	b = append(b, '\n')

	return string(b)
}

// Run starts the bubbletea program and blocks until the user quits.
func Run(fetch Fetcher) error {
	p := tea.NewProgram(NewModel(fetch), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
