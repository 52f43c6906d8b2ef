package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unbound-force/whiff/internal/taxonomy"
)

// TestRenderDetectContent_Empty verifies that an empty summary reports
// zero files and the no-smells line.
func TestRenderDetectContent_Empty(t *testing.T) {
	output := renderDetectContent(taxonomy.ScanSummary{})

	if !strings.Contains(output, "0 file(s)") {
		t.Errorf("expected output to contain '0 file(s)', got:\n%s", output)
	}
	if !strings.Contains(output, "0 smell(s)") {
		t.Errorf("expected output to contain '0 smell(s)', got:\n%s", output)
	}
	if !strings.Contains(output, "No test smells detected.") {
		t.Errorf("expected no-smells line, got:\n%s", output)
	}
}

// TestRenderDetectContent_WithFindings verifies that each file gets a
// header and each finding a row with label, scope and target.
func TestRenderDetectContent_WithFindings(t *testing.T) {
	summary := taxonomy.ScanSummary{
		Files: []taxonomy.FileReport{
			{
				Path: "com/acme/CartTest.java",
				Findings: []taxonomy.Finding{
					{Label: taxonomy.MysteryGuest},
					{Label: taxonomy.SleepyTest, Target: "waitsForStock"},
				},
			},
		},
		Total: 2,
		ByLabel: map[taxonomy.SmellLabel]int{
			taxonomy.MysteryGuest: 1,
			taxonomy.SleepyTest:   1,
		},
	}

	output := renderDetectContent(summary)

	for _, want := range []string{
		"1 file(s)", "2 smell(s)",
		"=== com/acme/CartTest.java ===",
		"Mystery Guest", "file",
		"Sleepy Test", "test", "waitsForStock",
		"By smell:", "Sleepy Test: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

// TestRenderDetectContent_LongTargetTruncated verifies that target
// names longer than the column budget are cut with an ellipsis.
func TestRenderDetectContent_LongTargetTruncated(t *testing.T) {
	long := "shouldRejectOrdersWhenInventoryServiceIsUnavailableForMoreThanThirtySeconds"
	summary := taxonomy.ScanSummary{
		Files: []taxonomy.FileReport{
			{
				Path:     "OrderTest.java",
				Findings: []taxonomy.Finding{{Label: taxonomy.EagerTest, Target: long}},
			},
		},
		Total:   1,
		ByLabel: map[taxonomy.SmellLabel]int{taxonomy.EagerTest: 1},
	}

	output := renderDetectContent(summary)

	if strings.Contains(output, long) {
		t.Error("expected long target to be truncated, but full name found in output")
	}
	truncated := long[:maxTargetWidth-3] + "..."
	if !strings.Contains(output, truncated) {
		t.Errorf("expected output to contain %q, got:\n%s", truncated, output)
	}
}

// TestTruncate_ExactWidthNotTruncated verifies the boundary.
func TestTruncate_ExactWidthNotTruncated(t *testing.T) {
	s := strings.Repeat("x", maxTargetWidth)
	if got := truncate(s, maxTargetWidth); got != s {
		t.Errorf("truncate at exact width changed the string: %q", got)
	}
	if got := truncate(s+"y", maxTargetWidth); len(got) != maxTargetWidth {
		t.Errorf("truncated length = %d, want %d", len(got), maxTargetWidth)
	}
}

// TestDetectModel_Lifecycle drives the model through sizing, help
// toggling and quitting without starting a program.
func TestDetectModel_Lifecycle(t *testing.T) {
	m := newDetectModel(taxonomy.ScanSummary{})

	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before sizing = %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(detectModel)
	if !m.ready {
		t.Fatal("model should be ready after a WindowSizeMsg")
	}
	if !strings.Contains(m.View(), "No test smells detected.") {
		t.Errorf("View() should show the content, got:\n%s", m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = next.(detectModel)
	if !m.help.ShowAll {
		t.Error("'?' should toggle full help")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("'q' should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("'q' should quit")
	}
}
