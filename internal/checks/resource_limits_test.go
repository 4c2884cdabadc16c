package checks_test

import (
	"testing"

	"kubescan/internal/checks"
	"kubescan/internal/models"
)

func evaluateResourceLimits(t *testing.T, snap *models.ClusterSnapshot, namespaces []string) []models.Finding {
	t.Helper()
	findings, err := checks.ResourceLimitChecker{}.Evaluate(snap, namespaces)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	return findings
}

func TestResourceLimits_FullyDeclared_NoFindings(t *testing.T) {
	snap := podSnapshot("prod", models.PodRecord{
		Name:       "api",
		Containers: []models.ContainerRecord{secureContainer("app")},
	})

	findings := evaluateResourceLimits(t, snap, []string{"prod"})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings; got %+v", findings)
	}
}

func TestResourceLimits_UnconstrainedContainer_ThreeFindings(t *testing.T) {
	c := secureContainer("app")
	c.CPULimit = ""
	c.MemoryLimit = ""
	c.CPURequest = ""
	c.MemoryRequest = ""
	snap := podSnapshot("prod", models.PodRecord{Name: "api", Containers: []models.ContainerRecord{c}})

	findings := evaluateResourceLimits(t, snap, []string{"prod"})
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings; got %d: %+v", len(findings), findings)
	}
	wantTitles := []string{"Missing memory limit", "Missing CPU limit", "Missing resource requests"}
	wantSeverities := []models.Severity{models.SeverityMedium, models.SeverityLow, models.SeverityLow}
	for i := range wantTitles {
		if findings[i].Title != wantTitles[i] {
			t.Errorf("findings[%d].Title = %q; want %q", i, findings[i].Title, wantTitles[i])
		}
		if findings[i].Severity != wantSeverities[i] {
			t.Errorf("findings[%d].Severity = %q; want %q", i, findings[i].Severity, wantSeverities[i])
		}
		if findings[i].ResourceName != "api/app" {
			t.Errorf("findings[%d].ResourceName = %q; want api/app", i, findings[i].ResourceName)
		}
	}
}

func TestResourceLimits_OneMissingRequest_FiresRequestsFinding(t *testing.T) {
	c := secureContainer("app")
	c.MemoryRequest = ""
	snap := podSnapshot("prod", models.PodRecord{Name: "api", Containers: []models.ContainerRecord{c}})

	findings := evaluateResourceLimits(t, snap, []string{"prod"})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding; got %d: %+v", len(findings), findings)
	}
	if findings[0].Title != "Missing resource requests" {
		t.Errorf("Title = %q", findings[0].Title)
	}
}

func TestResourceLimits_MissingMemoryLimitOnly(t *testing.T) {
	c := secureContainer("app")
	c.MemoryLimit = ""
	snap := podSnapshot("prod", models.PodRecord{Name: "api", Containers: []models.ContainerRecord{c}})

	findings := evaluateResourceLimits(t, snap, []string{"prod"})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding; got %d: %+v", len(findings), findings)
	}
	if findings[0].Severity != models.SeverityMedium {
		t.Errorf("Severity = %q; want MEDIUM", findings[0].Severity)
	}
}

func TestResourceLimits_SystemNamespace_Skipped(t *testing.T) {
	snap := podSnapshot("kube-system", models.PodRecord{
		Name:       "coredns",
		Containers: []models.ContainerRecord{{Name: "coredns"}},
	})

	findings := evaluateResourceLimits(t, snap, []string{"kube-system"})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings for kube-system; got %+v", findings)
	}
}

func TestResourceLimits_MultipleContainers_IndependentFindings(t *testing.T) {
	good := secureContainer("app")
	bad := secureContainer("sidecar")
	bad.CPULimit = ""
	snap := podSnapshot("prod", models.PodRecord{Name: "api", Containers: []models.ContainerRecord{good, bad}})

	findings := evaluateResourceLimits(t, snap, []string{"prod"})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding; got %d: %+v", len(findings), findings)
	}
	if findings[0].ResourceName != "api/sidecar" {
		t.Errorf("ResourceName = %q; want api/sidecar", findings[0].ResourceName)
	}
}
