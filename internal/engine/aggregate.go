package engine

import (
	"fmt"

	"kubescan/internal/models"
)

// Summarize tallies findings by severity and category and derives the
// overall posture level. It is a pure function: identical finding
// sequences always produce identical summaries, and the result does not
// depend on input order.
//
// A finding with an unrecognized severity violates a core invariant and
// yields an error instead of being silently absorbed.
func Summarize(findings []models.Finding) (models.ScanSummary, error) {
	summary := models.ScanSummary{
		SeverityCounts: make(map[models.Severity]int),
		CategoryCounts: make(map[models.Category]int),
	}
	for _, f := range findings {
		if !f.Severity.Valid() {
			return models.ScanSummary{}, fmt.Errorf("finding %q has unrecognized severity %q", f.Title, f.Severity)
		}
		summary.SeverityCounts[f.Severity]++
		summary.CategoryCounts[f.Category]++
		summary.TotalFindings++
	}
	summary.PostureLevel = derivePosture(summary.SeverityCounts)
	return summary, nil
}

// derivePosture maps the worst severity present to a posture label.
// INFO findings carry no security weight and leave the posture CLEAN.
func derivePosture(counts map[models.Severity]int) models.PostureLevel {
	switch {
	case counts[models.SeverityCritical] > 0:
		return models.PostureCritical
	case counts[models.SeverityHigh] > 0:
		return models.PostureHigh
	case counts[models.SeverityMedium] > 0:
		return models.PostureMedium
	case counts[models.SeverityLow] > 0:
		return models.PostureLow
	default:
		return models.PostureClean
	}
}
