package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/whiff/internal/taxonomy"
)

// Banner is the first line of a non-empty text report.
const Banner = "=== Test Smells (JUnit 5) ==="

// NoSmells is the only line of a text report with no findings.
const NoSmells = "No test smells detected."

// TextOptions controls optional sections of the text report.
type TextOptions struct {
	// Breakdown appends a per-label count table after the total.
	Breakdown bool
}

// WriteText writes the scan summary as human-readable styled text:
// a banner, one line per file followed by an indented line per
// finding, and a trailing total. Output uses lipgloss for color when
// the output is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, summary taxonomy.ScanSummary) error {
	return WriteTextWithOptions(w, summary, TextOptions{})
}

// WriteTextWithOptions is WriteText with optional sections enabled.
func WriteTextWithOptions(w io.Writer, summary taxonomy.ScanSummary, opts TextOptions) error {
	s := DefaultStyles()

	if summary.Empty() {
		_, err := fmt.Fprintln(w, s.Muted.Render(NoSmells))
		return err
	}

	fmt.Fprintln(w, s.Header.Render(Banner))
	for _, f := range summary.Files {
		fmt.Fprintln(w, s.FilePath.Render(f.Path))
		for _, fd := range f.Findings {
			fmt.Fprintf(w, "  - %s\n", renderFinding(fd, s))
		}
	}
	_, err := fmt.Fprintf(w, "%s %s\n",
		s.SummaryLabel.Render("Total:"),
		s.SummaryValue.Render(fmt.Sprintf("%d", summary.Total)))
	if err != nil {
		return err
	}

	if opts.Breakdown {
		fmt.Fprintln(w)
		_, err = fmt.Fprintln(w, breakdownTable(summary, s))
	}
	return err
}

func renderFinding(f taxonomy.Finding, s Styles) string {
	label := s.LabelStyle(f.Label).Render(string(f.Label))
	if f.Target == "" {
		return label
	}
	return label + ": " + f.Target
}

// breakdownTable renders per-label counts in catalog order. Labels
// with no findings are left out.
func breakdownTable(summary taxonomy.ScanSummary, s Styles) *table.Table {
	var rows [][]string
	var labels []taxonomy.SmellLabel
	for _, label := range taxonomy.Catalog() {
		n := summary.ByLabel[label]
		if n == 0 {
			continue
		}
		labels = append(labels, label)
		rows = append(rows, []string{
			string(label),
			string(taxonomy.ScopeOf(label)),
			fmt.Sprintf("%d", n),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 0 && row >= 0 && row < len(labels) {
				return s.LabelStyle(labels[row])
			}
			return s.TableCell
		}).
		Headers("SMELL", "SCOPE", "COUNT").
		Rows(rows...)
}
