package engine_test

import (
	"reflect"
	"strings"
	"testing"

	"kubescan/internal/engine"
	"kubescan/internal/models"
)

func TestSummarize_Empty_Clean(t *testing.T) {
	summary, err := engine.Summarize(nil)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary.TotalFindings != 0 {
		t.Errorf("TotalFindings = %d; want 0", summary.TotalFindings)
	}
	if summary.PostureLevel != models.PostureClean {
		t.Errorf("PostureLevel = %q; want CLEAN", summary.PostureLevel)
	}
}

func TestSummarize_Counts(t *testing.T) {
	findings := []models.Finding{
		{Severity: models.SeverityCritical, Category: models.CategoryPodSecurity, Title: "a"},
		{Severity: models.SeverityHigh, Category: models.CategoryRBAC, Title: "b"},
		{Severity: models.SeverityHigh, Category: models.CategoryRBAC, Title: "c"},
		{Severity: models.SeverityLow, Category: models.CategoryNetworkPolicy, Title: "d"},
	}
	summary, err := engine.Summarize(findings)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary.TotalFindings != 4 {
		t.Errorf("TotalFindings = %d; want 4", summary.TotalFindings)
	}
	if summary.SeverityCounts[models.SeverityHigh] != 2 {
		t.Errorf("HIGH count = %d; want 2", summary.SeverityCounts[models.SeverityHigh])
	}
	if summary.CategoryCounts[models.CategoryRBAC] != 2 {
		t.Errorf("RBAC count = %d; want 2", summary.CategoryCounts[models.CategoryRBAC])
	}
	if summary.PostureLevel != models.PostureCritical {
		t.Errorf("PostureLevel = %q; want CRITICAL", summary.PostureLevel)
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	findings := []models.Finding{
		{Severity: models.SeverityLow, Category: models.CategoryPodSecurity, Title: "a"},
		{Severity: models.SeverityCritical, Category: models.CategoryRBAC, Title: "b"},
		{Severity: models.SeverityMedium, Category: models.CategoryNetworkPolicy, Title: "c"},
	}
	reversed := []models.Finding{findings[2], findings[1], findings[0]}

	forward, err := engine.Summarize(findings)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	backward, err := engine.Summarize(reversed)
	if err != nil {
		t.Fatalf("backward: %v", err)
	}
	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("summaries differ by input order:\nforward:  %+v\nbackward: %+v", forward, backward)
	}
}

func TestSummarize_PostureFollowsWorstSeverity(t *testing.T) {
	cases := []struct {
		severity models.Severity
		want     models.PostureLevel
	}{
		{models.SeverityCritical, models.PostureCritical},
		{models.SeverityHigh, models.PostureHigh},
		{models.SeverityMedium, models.PostureMedium},
		{models.SeverityLow, models.PostureLow},
	}
	for _, tc := range cases {
		findings := []models.Finding{
			{Severity: tc.severity, Category: models.CategoryPodSecurity, Title: "worst"},
			{Severity: models.SeverityInfo, Category: models.CategoryRBAC, Title: "note"},
		}
		summary, err := engine.Summarize(findings)
		if err != nil {
			t.Fatalf("Summarize(%s): %v", tc.severity, err)
		}
		if summary.PostureLevel != tc.want {
			t.Errorf("worst %s: PostureLevel = %q; want %q", tc.severity, summary.PostureLevel, tc.want)
		}
	}
}

func TestSummarize_InfoOnly_Clean(t *testing.T) {
	findings := []models.Finding{
		{Severity: models.SeverityInfo, Category: models.CategoryPodSecurity, Title: "note"},
	}
	summary, err := engine.Summarize(findings)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary.PostureLevel != models.PostureClean {
		t.Errorf("PostureLevel = %q; want CLEAN for INFO-only findings", summary.PostureLevel)
	}
	if summary.TotalFindings != 1 {
		t.Errorf("TotalFindings = %d; want 1", summary.TotalFindings)
	}
}

func TestSummarize_InvalidSeverity_Error(t *testing.T) {
	findings := []models.Finding{
		{Severity: "BANANAS", Category: models.CategoryPodSecurity, Title: "bogus"},
	}
	_, err := engine.Summarize(findings)
	if err == nil {
		t.Fatal("expected error for unrecognized severity")
	}
	if !strings.Contains(err.Error(), "BANANAS") {
		t.Errorf("error = %q; want the bad severity named", err)
	}
}
