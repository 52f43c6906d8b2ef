package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/unbound-force/whiff/internal/taxonomy"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for the report banner.
	Header lipgloss.Style

	// FilePath styles the per-file heading line.
	FilePath lipgloss.Style

	// ScopeFile, ScopeFixture and ScopeTest color-code smell labels
	// by the granularity they were detected at.
	ScopeFile    lipgloss.Style
	ScopeFixture lipgloss.Style
	ScopeTest    lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// SummaryLabel styles summary line labels.
	SummaryLabel lipgloss.Style

	// SummaryValue styles summary line values.
	SummaryValue lipgloss.Style

	// Pass styles PASS indicators.
	Pass lipgloss.Style

	// Fail styles FAIL indicators.
	Fail lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		FilePath: lipgloss.NewStyle().Bold(true),

		ScopeFile:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		ScopeFixture: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		ScopeTest:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		SummaryLabel: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),

		Pass: lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		Fail: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// LabelStyle returns the style for a smell label, chosen by the
// label's scope.
func (s Styles) LabelStyle(label taxonomy.SmellLabel) lipgloss.Style {
	switch taxonomy.ScopeOf(label) {
	case taxonomy.ScopeFile:
		return s.ScopeFile
	case taxonomy.ScopeFixture:
		return s.ScopeFixture
	case taxonomy.ScopeTest:
		return s.ScopeTest
	default:
		return s.Muted
	}
}
