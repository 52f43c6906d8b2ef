// Package report provides output formatters for Whiff scan results
// in JSON and human-readable text formats.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/whiff/internal/taxonomy"
)

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Version  string                      `json:"version"`
	Files    []JSONFile                  `json:"files"`
	Total    int                         `json:"total"`
	ByLabel  map[taxonomy.SmellLabel]int `json:"by_label"`
	Metadata taxonomy.Metadata           `json:"metadata"`
}

// JSONFile is one file's findings.
type JSONFile struct {
	Path     string        `json:"path"`
	Findings []JSONFinding `json:"findings"`
}

// JSONFinding is a finding with its stable ID, scope and rendered
// text.
type JSONFinding struct {
	ID     string              `json:"id"`
	Label  taxonomy.SmellLabel `json:"label"`
	Scope  taxonomy.Scope      `json:"scope"`
	Target string              `json:"target,omitempty"`
	Text   string              `json:"text"`
}

// NewJSONReport converts a summary into its JSON form.
func NewJSONReport(summary taxonomy.ScanSummary, meta taxonomy.Metadata) JSONReport {
	if meta.Warnings == nil {
		meta.Warnings = []string{}
	}
	byLabel := summary.ByLabel
	if byLabel == nil {
		byLabel = map[taxonomy.SmellLabel]int{}
	}

	files := make([]JSONFile, 0, len(summary.Files))
	for _, f := range summary.Files {
		jf := JSONFile{
			Path:     f.Path,
			Findings: make([]JSONFinding, 0, len(f.Findings)),
		}
		for _, fd := range f.Findings {
			jf.Findings = append(jf.Findings, JSONFinding{
				ID:     taxonomy.GenerateID(f.Path, fd.Label, fd.Target),
				Label:  fd.Label,
				Scope:  taxonomy.ScopeOf(fd.Label),
				Target: fd.Target,
				Text:   fd.String(),
			})
		}
		files = append(files, jf)
	}

	return JSONReport{
		Version:  meta.WhiffVersion,
		Files:    files,
		Total:    summary.Total,
		ByLabel:  byLabel,
		Metadata: meta,
	}
}

// WriteJSON writes the scan summary as formatted JSON to the writer.
func WriteJSON(w io.Writer, summary taxonomy.ScanSummary, meta taxonomy.Metadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSONReport(summary, meta))
}
