// Package engine runs the registered checkers against a frozen
// ClusterSnapshot and aggregates their findings into a scan summary.
package engine

import (
	"fmt"
	"sync"

	"kubescan/internal/checks"
	"kubescan/internal/models"
)

// Pipeline coordinates one scan: every registered checker is evaluated
// against the same snapshot and the merged findings are summarized.
// Checkers run on independent workers; the snapshot is read-only after
// construction so no synchronization beyond the final join is needed.
type Pipeline struct {
	registry *checks.Registry
}

// NewPipeline returns a pipeline over the given checker registry.
func NewPipeline(registry *checks.Registry) *Pipeline {
	return &Pipeline{registry: registry}
}

// Evaluate runs all checkers against snap for the requested namespaces and
// returns the merged finding sequence plus its summary.
//
// Checker failures are contained: a checker that returns an error or
// panics contributes a single INFO finding naming the checker, and the
// remaining checkers still run. Cross-checker output order is checker
// registration order; within a checker the order is the checker's own
// deterministic order. Exact duplicate findings are dropped, keeping the
// first occurrence.
//
// The only error Evaluate returns is an aggregation invariant violation
// (a finding with an unrecognized severity), which indicates a bug
// upstream and must not be absorbed.
func (p *Pipeline) Evaluate(snap *models.ClusterSnapshot, namespaces []string) ([]models.Finding, models.ScanSummary, error) {
	checkers := p.registry.All()
	results := make([][]models.Finding, len(checkers))

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(slot int, c checks.Checker) {
			defer wg.Done()
			results[slot] = runChecker(c, snap, namespaces)
		}(i, checker)
	}
	wg.Wait()

	var merged []models.Finding
	for _, findings := range results {
		merged = append(merged, findings...)
	}
	merged = dedupe(merged)

	summary, err := Summarize(merged)
	if err != nil {
		return nil, models.ScanSummary{}, err
	}
	return merged, summary, nil
}

// runChecker evaluates one checker, converting an error return or a panic
// into a single INFO "checker failed" finding so one broken checker never
// aborts the scan.
func runChecker(c checks.Checker, snap *models.ClusterSnapshot, namespaces []string) (findings []models.Finding) {
	defer func() {
		if r := recover(); r != nil {
			findings = []models.Finding{checkerFailure(c, fmt.Sprintf("%v", r))}
		}
	}()

	findings, err := c.Evaluate(snap, namespaces)
	if err != nil {
		return []models.Finding{checkerFailure(c, err.Error())}
	}
	return findings
}

func checkerFailure(c checks.Checker, reason string) models.Finding {
	return models.Finding{
		Severity:       models.SeverityInfo,
		Category:       c.Category(),
		Title:          fmt.Sprintf("Checker failed: %s", c.Name()),
		ResourceName:   c.Name(),
		Namespace:      models.ClusterScopedNamespace,
		Description:    fmt.Sprintf("%s could not complete: %s", c.Name(), reason),
		Recommendation: "Inspect the cluster resources this checker consumes for malformed data",
		Remediation:    "Re-run the scan once the underlying resource data is readable",
	}
}

// dedupe drops findings that are field-for-field identical to an earlier
// one, preserving first-occurrence order.
func dedupe(findings []models.Finding) []models.Finding {
	if len(findings) == 0 {
		return findings
	}
	seen := make(map[models.Finding]struct{}, len(findings))
	out := findings[:0]
	for _, f := range findings {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
