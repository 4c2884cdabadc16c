// Package output renders scan results: a colored console report grouped
// by severity and a JSON report suitable for file persistence.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"kubescan/internal/models"
)

const separatorWidth = 60

// severityColors maps each severity to its console color.
var severityColors = map[models.Severity]*color.Color{
	models.SeverityCritical: color.New(color.FgRed, color.Bold),
	models.SeverityHigh:     color.New(color.FgRed),
	models.SeverityMedium:   color.New(color.FgYellow),
	models.SeverityLow:      color.New(color.FgHiYellow),
	models.SeverityInfo:     color.New(color.FgCyan),
}

// postureMessages maps posture levels to the closing assessment line.
var postureMessages = map[models.PostureLevel]string{
	models.PostureCritical: "Security Posture: CRITICAL - Immediate action required!",
	models.PostureHigh:     "Security Posture: HIGH - Address high-priority issues",
	models.PostureMedium:   "Security Posture: MEDIUM - Improvements recommended",
	models.PostureLow:      "Security Posture: LOW - Minor improvements recommended",
	models.PostureClean:    "Security Posture: CLEAN - No issues detected",
}

// WriteConsoleReport renders the full findings report to w: findings
// grouped by severity in descending order, then the summary table and the
// posture assessment.
func WriteConsoleReport(w io.Writer, findings []models.Finding, summary models.ScanSummary) {
	if len(findings) == 0 {
		green := color.New(color.FgGreen)
		green.Fprintln(w, strings.Repeat("=", separatorWidth))
		green.Fprintln(w, "No security issues found!")
		green.Fprintln(w, strings.Repeat("=", separatorWidth))
		return
	}

	red := color.New(color.FgRed)
	red.Fprintln(w, strings.Repeat("=", separatorWidth))
	red.Fprintln(w, "Security Issues Detected")
	red.Fprintln(w, strings.Repeat("=", separatorWidth))
	fmt.Fprintln(w)

	grouped := groupBySeverity(findings)
	for _, severity := range models.Severities {
		if group := grouped[severity]; len(group) > 0 {
			writeSeverityGroup(w, severity, group)
		}
	}

	writeSummary(w, summary)
}

func groupBySeverity(findings []models.Finding) map[models.Severity][]models.Finding {
	grouped := make(map[models.Severity][]models.Finding)
	for _, f := range findings {
		grouped[f.Severity] = append(grouped[f.Severity], f)
	}
	return grouped
}

func writeSeverityGroup(w io.Writer, severity models.Severity, findings []models.Finding) {
	c := severityColors[severity]
	c.Fprintln(w, strings.Repeat("-", separatorWidth))
	c.Fprintf(w, "%s Issues (%d)\n", severity, len(findings))
	c.Fprintln(w, strings.Repeat("-", separatorWidth))
	fmt.Fprintln(w)

	for _, f := range findings {
		c.Fprintf(w, "[%s] %s\n", f.Severity, f.Title)
		fmt.Fprintf(w, "  Resource: %s\n", f.ResourceName)
		fmt.Fprintf(w, "  Namespace: %s\n", f.Namespace)
		fmt.Fprintf(w, "  Category: %s\n", f.Category)
		if f.Description != "" {
			fmt.Fprintf(w, "  Description: %s\n", f.Description)
		}
		if f.Recommendation != "" {
			fmt.Fprintf(w, "  Recommendation: %s\n", f.Recommendation)
		}
		if f.Remediation != "" {
			fmt.Fprintf(w, "  Remediation: %s\n", f.Remediation)
		}
		fmt.Fprintln(w)
	}
}

func writeSummary(w io.Writer, summary models.ScanSummary) {
	cyan := color.New(color.FgCyan)
	cyan.Fprintln(w, strings.Repeat("=", separatorWidth))
	cyan.Fprintln(w, "Summary")
	cyan.Fprintln(w, strings.Repeat("=", separatorWidth))
	fmt.Fprintln(w)

	const rowFmt = "%-12s %5d\n"
	fmt.Fprintf(w, "%-12s %5s\n", "SEVERITY", "COUNT")
	fmt.Fprintln(w, strings.Repeat("-", 18))
	for _, severity := range models.Severities {
		if count := summary.SeverityCounts[severity]; count > 0 {
			fmt.Fprintf(w, rowFmt, severity, count)
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 18))
	fmt.Fprintf(w, rowFmt, "TOTAL", summary.TotalFindings)
	fmt.Fprintln(w)

	message := postureMessages[summary.PostureLevel]
	switch summary.PostureLevel {
	case models.PostureCritical, models.PostureHigh:
		color.New(color.FgRed).Fprintln(w, message)
	case models.PostureMedium, models.PostureLow:
		color.New(color.FgYellow).Fprintln(w, message)
	default:
		color.New(color.FgGreen).Fprintln(w, message)
	}
}
