package checks_test

import (
	"testing"

	"kubescan/internal/checks"
	"kubescan/internal/models"
)

func evaluateNetworkPolicy(t *testing.T, snap *models.ClusterSnapshot, namespaces []string) []models.Finding {
	t.Helper()
	findings, err := checks.NetworkPolicyChecker{}.Evaluate(snap, namespaces)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	return findings
}

func TestNetworkPolicy_NoPolicies_High(t *testing.T) {
	snap := podSnapshot("prod",
		models.PodRecord{Name: "api", Containers: []models.ContainerRecord{secureContainer("app")}},
		models.PodRecord{Name: "worker", Containers: []models.ContainerRecord{secureContainer("app")}},
	)

	findings := evaluateNetworkPolicy(t, snap, []string{"prod"})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding; got %d: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Severity != models.SeverityHigh {
		t.Errorf("Severity = %q; want HIGH", f.Severity)
	}
	if f.Title != "No network policies defined" {
		t.Errorf("Title = %q", f.Title)
	}
	if f.ResourceName != "NetworkPolicy" {
		t.Errorf("ResourceName = %q; want NetworkPolicy", f.ResourceName)
	}
	if f.Namespace != "prod" {
		t.Errorf("Namespace = %q; want prod", f.Namespace)
	}
}

func TestNetworkPolicy_EmptyNamespace_Skipped(t *testing.T) {
	snap := models.NewSnapshotBuilder().AddNamespace("empty").Build()

	findings := evaluateNetworkPolicy(t, snap, []string{"empty"})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings for namespace with no pods; got %+v", findings)
	}
}

func TestNetworkPolicy_SystemNamespace_Skipped(t *testing.T) {
	snap := podSnapshot("kube-system",
		models.PodRecord{Name: "kube-proxy", Containers: []models.ContainerRecord{secureContainer("proxy")}},
	)

	findings := evaluateNetworkPolicy(t, snap, []string{"kube-system"})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings for kube-system; got %+v", findings)
	}
}

func TestNetworkPolicy_DefaultDenyPresent_NoFindings(t *testing.T) {
	snap := models.NewSnapshotBuilder().
		AddNamespace("prod").
		AddPod(models.PodRecord{Namespace: "prod", Name: "api"}).
		AddNetworkPolicy(models.NetworkPolicyRecord{
			Namespace:      "prod",
			Name:           "default-deny-all",
			SelectsAllPods: true,
		}).
		Build()

	findings := evaluateNetworkPolicy(t, snap, []string{"prod"})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings; got %+v", findings)
	}
}

func TestNetworkPolicy_MissingDefaultDeny_Medium(t *testing.T) {
	snap := models.NewSnapshotBuilder().
		AddNamespace("prod").
		AddPod(models.PodRecord{Namespace: "prod", Name: "api"}).
		AddNetworkPolicy(models.NetworkPolicyRecord{
			Namespace: "prod",
			Name:      "allow-api",
			Ingress:   []models.NetworkPolicyRuleRecord{{PeerCount: 1, PortCount: 1}},
		}).
		Build()

	findings := evaluateNetworkPolicy(t, snap, []string{"prod"})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding; got %d: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Severity != models.SeverityMedium {
		t.Errorf("Severity = %q; want MEDIUM", f.Severity)
	}
	if f.Title != "Missing default deny policy" {
		t.Errorf("Title = %q", f.Title)
	}
}

func TestNetworkPolicy_OpenIngress_OneFindingPerPolicy(t *testing.T) {
	snap := models.NewSnapshotBuilder().
		AddNamespace("prod").
		AddPod(models.PodRecord{Namespace: "prod", Name: "api"}).
		AddNetworkPolicy(models.NetworkPolicyRecord{
			Namespace:      "prod",
			Name:           "wide-open",
			SelectsAllPods: true,
			Ingress: []models.NetworkPolicyRuleRecord{
				{PeerCount: 0, PortCount: 0},
				{PeerCount: 0, PortCount: 0},
			},
		}).
		Build()

	findings := evaluateNetworkPolicy(t, snap, []string{"prod"})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding despite two open rules; got %d: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Severity != models.SeverityMedium {
		t.Errorf("Severity = %q; want MEDIUM", f.Severity)
	}
	if f.Title != "Overly permissive ingress rule" {
		t.Errorf("Title = %q", f.Title)
	}
	if f.ResourceName != "wide-open" {
		t.Errorf("ResourceName = %q; want wide-open", f.ResourceName)
	}
}

func TestNetworkPolicy_RestrictedIngress_NoFinding(t *testing.T) {
	// A rule with a peer or a port restriction is not fully open.
	snap := models.NewSnapshotBuilder().
		AddNamespace("prod").
		AddPod(models.PodRecord{Namespace: "prod", Name: "api"}).
		AddNetworkPolicy(models.NetworkPolicyRecord{
			Namespace:      "prod",
			Name:           "port-limited",
			SelectsAllPods: true,
			Ingress:        []models.NetworkPolicyRuleRecord{{PeerCount: 0, PortCount: 1}},
		}).
		Build()

	findings := evaluateNetworkPolicy(t, snap, []string{"prod"})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings; got %+v", findings)
	}
}

func TestNetworkPolicy_OpenEgress_Low(t *testing.T) {
	snap := models.NewSnapshotBuilder().
		AddNamespace("prod").
		AddPod(models.PodRecord{Namespace: "prod", Name: "api"}).
		AddNetworkPolicy(models.NetworkPolicyRecord{
			Namespace:      "prod",
			Name:           "open-egress",
			SelectsAllPods: true,
			Egress:         []models.NetworkPolicyRuleRecord{{PeerCount: 0, PortCount: 0}},
		}).
		Build()

	findings := evaluateNetworkPolicy(t, snap, []string{"prod"})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding; got %d: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Severity != models.SeverityLow {
		t.Errorf("Severity = %q; want LOW", f.Severity)
	}
	if f.Title != "Overly permissive egress rule" {
		t.Errorf("Title = %q", f.Title)
	}
}
