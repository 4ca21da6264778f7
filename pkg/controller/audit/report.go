package audit

import (
	"cmp"
	"slices"
)

// AuditReport is the result of one run.
type AuditReport struct {
	// Rows are sorted by action name and ref.
	Rows     []*ComparisonResult
	Outdated int
}

// Build aggregates results into a report.
// The row order doesn't depend on the order results were produced in.
func Build(results []*ComparisonResult) *AuditReport {
	rows := make([]*ComparisonResult, 0, len(results))
	outdated := 0
	for _, result := range results {
		if result == nil {
			continue
		}
		rows = append(rows, result)
		if !result.IsCurrent {
			outdated++
		}
	}
	slices.SortFunc(rows, func(a, b *ComparisonResult) int {
		return cmp.Or(
			cmp.Compare(a.Reference.Name, b.Reference.Name),
			cmp.Compare(a.Reference.Ref, b.Reference.Ref),
		)
	})
	return &AuditReport{
		Rows:     rows,
		Outdated: outdated,
	}
}
