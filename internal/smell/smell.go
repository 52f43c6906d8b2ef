// Package smell classifies Java test sources against the fixed test
// smell catalog. Every rule is a pure predicate over text, so
// classification never fails: a missing pattern is simply no finding.
package smell

import (
	"github.com/unbound-force/whiff/internal/extract"
	"github.com/unbound-force/whiff/internal/taxonomy"
)

// Classify evaluates the catalog over one file and returns its raw
// findings: file-scope first, then the fixture, then each test in
// extraction order with its rules in catalog order. The result may
// contain duplicates.
//
// fixture is nil when the file has no setup method.
func Classify(text string, fixture *taxonomy.Block, tests []taxonomy.Block) []taxonomy.Finding {
	var findings []taxonomy.Finding

	for _, r := range fileRules {
		if r.match(text) {
			findings = append(findings, taxonomy.Finding{Label: r.label})
		}
	}

	if fixture != nil {
		for _, r := range fixtureRules {
			if r.match(fixture.Body) {
				findings = append(findings, taxonomy.Finding{Label: r.label})
			}
		}
	}

	for _, t := range tests {
		for _, r := range testRules {
			if r.match(t.Body) {
				findings = append(findings, taxonomy.Finding{Label: r.label, Target: t.Name})
			}
		}
	}

	return findings
}

// Detect extracts the fixture and test blocks from a source unit and
// classifies them.
func Detect(unit taxonomy.SourceUnit) []taxonomy.Finding {
	var fixture *taxonomy.Block
	if b, ok := extract.Fixture(unit.Text); ok {
		fixture = &b
	}
	return Classify(unit.Text, fixture, extract.Tests(unit.Text))
}
