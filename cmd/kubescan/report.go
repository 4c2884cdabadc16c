package main

import (
	"fmt"
	"io"
	"sort"

	"kubescan/internal/models"
)

// sortFindings sorts findings in-place by severity (CRITICAL first), then
// namespace, then resource name, then title. The sort is stable so equal
// keys keep checker emission order.
func sortFindings(findings []models.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity.Rank() != findings[j].Severity.Rank() {
			return findings[i].Severity.Rank() < findings[j].Severity.Rank()
		}
		if findings[i].Namespace != findings[j].Namespace {
			return findings[i].Namespace < findings[j].Namespace
		}
		if findings[i].ResourceName != findings[j].ResourceName {
			return findings[i].ResourceName < findings[j].ResourceName
		}
		return findings[i].Title < findings[j].Title
	})
}

// printSummary writes the compact severity breakdown used by --summary.
func printSummary(w io.Writer, summary models.ScanSummary) {
	fmt.Fprintf(w, "Total findings: %d\n", summary.TotalFindings)
	for _, severity := range models.Severities {
		if count := summary.SeverityCounts[severity]; count > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", severity, count)
		}
	}
	for _, category := range models.Categories {
		if count := summary.CategoryCounts[category]; count > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", category, count)
		}
	}
	fmt.Fprintf(w, "Posture: %s\n", summary.PostureLevel)
}
