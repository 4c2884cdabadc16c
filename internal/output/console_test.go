package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kubescan/internal/models"
)

func plainConsoleReport(t *testing.T, findings []models.Finding, summary models.ScanSummary) string {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	WriteConsoleReport(&buf, findings, summary)
	return buf.String()
}

func TestWriteConsoleReport_NoFindings(t *testing.T) {
	out := plainConsoleReport(t, nil, models.ScanSummary{PostureLevel: models.PostureClean})
	assert.Contains(t, out, "No security issues found!")
	assert.NotContains(t, out, "Security Issues Detected")
}

func TestWriteConsoleReport_GroupsAndSummary(t *testing.T) {
	findings := []models.Finding{
		{
			Severity:       models.SeverityLow,
			Category:       models.CategoryResourceLimits,
			Title:          "Missing CPU limit",
			ResourceName:   "api/app",
			Namespace:      "prod",
			Description:    "Container \"app\" has no CPU limit defined",
			Recommendation: "Set CPU limits to prevent resource exhaustion",
		},
		{
			Severity:     models.SeverityCritical,
			Category:     models.CategoryPodSecurity,
			Title:        "Privileged container detected",
			ResourceName: "api/app",
			Namespace:    "prod",
		},
	}
	summary := models.ScanSummary{
		SeverityCounts: map[models.Severity]int{
			models.SeverityCritical: 1,
			models.SeverityLow:      1,
		},
		CategoryCounts: map[models.Category]int{
			models.CategoryPodSecurity:    1,
			models.CategoryResourceLimits: 1,
		},
		TotalFindings: 2,
		PostureLevel:  models.PostureCritical,
	}

	out := plainConsoleReport(t, findings, summary)
	require.Contains(t, out, "Security Issues Detected")

	// CRITICAL group must come before LOW regardless of input order.
	criticalIdx := indexOf(t, out, "CRITICAL Issues (1)")
	lowIdx := indexOf(t, out, "LOW Issues (1)")
	assert.Less(t, criticalIdx, lowIdx)

	assert.Contains(t, out, "[CRITICAL] Privileged container detected")
	assert.Contains(t, out, "Resource: api/app")
	assert.Contains(t, out, "Namespace: prod")
	assert.Contains(t, out, "Recommendation: Set CPU limits")
	assert.Contains(t, out, "Security Posture: CRITICAL - Immediate action required!")
}

func TestWriteConsoleReport_SkipsEmptySeverityGroups(t *testing.T) {
	findings := []models.Finding{
		{Severity: models.SeverityMedium, Category: models.CategoryNetworkPolicy, Title: "Missing default deny policy", ResourceName: "NetworkPolicy", Namespace: "prod"},
	}
	summary := models.ScanSummary{
		SeverityCounts: map[models.Severity]int{models.SeverityMedium: 1},
		TotalFindings:  1,
		PostureLevel:   models.PostureMedium,
	}

	out := plainConsoleReport(t, findings, summary)
	assert.Contains(t, out, "MEDIUM Issues (1)")
	assert.NotContains(t, out, "CRITICAL Issues")
	assert.NotContains(t, out, "HIGH Issues")
	assert.Contains(t, out, "Security Posture: MEDIUM - Improvements recommended")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := bytes.Index([]byte(haystack), []byte(needle))
	require.GreaterOrEqual(t, idx, 0, "missing %q in output", needle)
	return idx
}
