// Package taxonomy defines the test smell catalog, the core data
// structures shared by the scanner, and stable ID generation for
// Whiff findings.
package taxonomy

import (
	"crypto/sha256"
	"fmt"
)

// SmellLabel identifies one kind of test smell. The string value is
// the human-readable label printed in reports.
type SmellLabel string

// File scope: evaluated once against the full source text.
const (
	IgnoredTest               SmellLabel = "Ignored Test"
	ConstructorInitialization SmellLabel = "Constructor Initialization"
	MysteryGuest              SmellLabel = "Mystery Guest"
	ResourceOptimism          SmellLabel = "Resource Optimism"
)

// Fixture scope: evaluated once against the setup method body.
const (
	GeneralFixture SmellLabel = "General Fixture"
)

// Test scope: evaluated once per extracted test method body.
const (
	EmptyTest            SmellLabel = "Empty Test"
	UnknownTest          SmellLabel = "Unknown Test"
	SleepyTest           SmellLabel = "Sleepy Test"
	RedundantPrint       SmellLabel = "Redundant Print"
	ConditionalTestLogic SmellLabel = "Conditional Test Logic"
	ExceptionHandling    SmellLabel = "Exception Handling"
	AssertionRoulette    SmellLabel = "Assertion Roulette"
	DuplicateAssert      SmellLabel = "Duplicate Assert"
	MagicNumberTest      SmellLabel = "Magic Number Test"
	SensitiveEquality    SmellLabel = "Sensitive Equality"
	RedundantAssertion   SmellLabel = "Redundant Assertion"
	DefaultTest          SmellLabel = "Default Test"
	LazyTest             SmellLabel = "Lazy Test"
	EagerTest            SmellLabel = "Eager Test"
)

// Scope is the granularity at which a smell is evaluated.
type Scope string

// Scope constants.
const (
	ScopeFile    Scope = "file"
	ScopeFixture Scope = "fixture"
	ScopeTest    Scope = "test"
)

// Finding is one classification result attached to a file. Findings
// are values: two findings are equal when both Label and Target match.
type Finding struct {
	// Label is the smell kind.
	Label SmellLabel `json:"label"`

	// Target is the test method the finding applies to. Empty for
	// file- and fixture-scope findings.
	Target string `json:"target,omitempty"`
}

// String renders the finding as "Label" or "Label: target".
func (f Finding) String() string {
	if f.Target == "" {
		return string(f.Label)
	}
	return fmt.Sprintf("%s: %s", f.Label, f.Target)
}

// SourceUnit is one test source file as handed to the scanner: its
// path relative to the scanned root and its full text.
type SourceUnit struct {
	Path string
	Text string
}

// Block is a named code span cut out of a SourceUnit: the text
// strictly between a method's opening brace and its matching close.
type Block struct {
	// Name is the method name. Empty for the fixture block.
	Name string

	// Body is the text between the delimiters, exclusive.
	Body string
}

// FileReport holds the deduplicated findings for one file, in
// first-occurrence order.
type FileReport struct {
	// Path is the file path relative to the scanned root.
	Path string `json:"path"`

	// Findings is never empty for a report that appears in a
	// ScanSummary.
	Findings []Finding `json:"findings"`
}

// ScanSummary is the terminal artifact of a scan: every file with at
// least one finding, ordered by path, plus derived totals.
type ScanSummary struct {
	// Files lists per-file reports sorted lexicographically by path.
	Files []FileReport `json:"files"`

	// Total is the number of findings across all files, counted
	// after per-file deduplication.
	Total int `json:"total"`

	// ByLabel counts findings per smell label.
	ByLabel map[SmellLabel]int `json:"by_label"`
}

// Empty reports whether the scan found no smells at all.
func (s ScanSummary) Empty() bool {
	return len(s.Files) == 0
}

// Lookup returns the report for path, if present.
func (s ScanSummary) Lookup(path string) (FileReport, bool) {
	for _, f := range s.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileReport{}, false
}

// Metadata holds scan run metadata. It carries no timestamps so that
// identical input renders identical output.
type Metadata struct {
	WhiffVersion string   `json:"whiff_version"`
	GoVersion    string   `json:"go_version"`
	Warnings     []string `json:"warnings"`
}

// GenerateID produces a stable, deterministic ID for a finding in a
// given file. The ID is a sha256 hash truncated to 8 hex characters,
// prefixed with "sm-".
func GenerateID(path string, label SmellLabel, target string) string {
	input := fmt.Sprintf("%s:%s:%s", path, label, target)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("sm-%x", hash[:4])
}
