package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/whiff/internal/report"
	"github.com/unbound-force/whiff/internal/taxonomy"
)

// maxTargetWidth bounds the TARGET column before truncation.
const maxTargetWidth = 40

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))
)

// detectModel is the Bubble Tea model for browsing scan results.
type detectModel struct {
	summary  taxonomy.ScanSummary
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newDetectModel(summary taxonomy.ScanSummary) detectModel {
	return detectModel{
		summary: summary,
		help:    help.New(),
		keys:    defaultKeyMap,
		content: renderDetectContent(summary),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func renderDetectContent(summary taxonomy.ScanSummary) string {
	var sb strings.Builder
	styles := report.DefaultStyles()

	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("Whiff: %d file(s), %d smell(s)",
			len(summary.Files), summary.Total)))
	sb.WriteString("\n\n")

	if summary.Empty() {
		sb.WriteString(statusStyle.Render(report.NoSmells))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, f := range summary.Files {
		sb.WriteString(tuiHeaderStyle.Render(fmt.Sprintf("=== %s ===", f.Path)))
		sb.WriteString("\n")

		rows := make([][]string, 0, len(f.Findings))
		for _, fd := range f.Findings {
			rows = append(rows, []string{
				string(fd.Label),
				string(taxonomy.ScopeOf(fd.Label)),
				truncate(fd.Target, maxTargetWidth),
			})
		}
		findings := f.Findings

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(tuiBorderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return tuiHeaderStyle
				}
				if col == 0 && row >= 0 && row < len(findings) {
					return styles.LabelStyle(findings[row].Label)
				}
				return lipgloss.NewStyle()
			}).
			Headers("SMELL", "SCOPE", "TARGET").
			Rows(rows...)

		sb.WriteString(t.String())
		sb.WriteString("\n\n")
	}

	var parts []string
	for _, label := range taxonomy.Catalog() {
		if n := summary.ByLabel[label]; n > 0 {
			parts = append(parts, styles.LabelStyle(label).Render(
				fmt.Sprintf("%s: %d", label, n)))
		}
	}
	sb.WriteString(statusStyle.Render("By smell: "))
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString("\n")

	return sb.String()
}

func (m detectModel) Init() tea.Cmd {
	return nil
}

func (m detectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		footerHeight := 2

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-footerHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - footerHeight
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m detectModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveDetect launches the Bubble Tea TUI for browsing scan
// results.
func runInteractiveDetect(summary taxonomy.ScanSummary) error {
	model := newDetectModel(summary)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
