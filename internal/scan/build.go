// Package scan drives the smell engine over a set of source units and
// aggregates the findings into a deterministic ScanSummary.
package scan

import (
	"sort"

	"github.com/unbound-force/whiff/internal/taxonomy"
)

// Dedup returns findings with repeated (label, target) pairs removed.
// The first occurrence of each pair is kept in its original position
// relative to the others.
func Dedup(findings []taxonomy.Finding) []taxonomy.Finding {
	if len(findings) == 0 {
		return nil
	}
	seen := make(map[taxonomy.Finding]struct{}, len(findings))
	out := make([]taxonomy.Finding, 0, len(findings))
	for _, f := range findings {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Build turns raw per-file findings into a ScanSummary. Files are
// ordered by path, each list is deduplicated, and files left with no
// findings are omitted. Total and ByLabel count deduplicated findings.
func Build(raw map[string][]taxonomy.Finding) taxonomy.ScanSummary {
	paths := make([]string, 0, len(raw))
	for p := range raw {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	summary := taxonomy.ScanSummary{
		Files:   []taxonomy.FileReport{},
		ByLabel: make(map[taxonomy.SmellLabel]int),
	}
	for _, p := range paths {
		findings := Dedup(raw[p])
		if len(findings) == 0 {
			continue
		}
		summary.Files = append(summary.Files, taxonomy.FileReport{
			Path:     p,
			Findings: findings,
		})
		summary.Total += len(findings)
		for _, f := range findings {
			summary.ByLabel[f.Label]++
		}
	}
	return summary
}
