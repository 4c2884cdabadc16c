package checks

import (
	"fmt"
	"strings"

	"kubescan/internal/models"
)

// systemNamespacePrefix marks namespaces managed by Kubernetes itself;
// workload-oriented checkers skip them.
const systemNamespacePrefix = "kube-"

// NetworkPolicyChecker validates namespace network segmentation. A
// namespace with no pods has nothing to protect and is skipped entirely,
// as are kube- system namespaces.
type NetworkPolicyChecker struct{}

func (NetworkPolicyChecker) Name() string              { return "NetworkPolicyChecker" }
func (NetworkPolicyChecker) Category() models.Category { return models.CategoryNetworkPolicy }

func (c NetworkPolicyChecker) Evaluate(snap *models.ClusterSnapshot, namespaces []string) ([]models.Finding, error) {
	var findings []models.Finding
	for _, ns := range namespaces {
		if strings.HasPrefix(ns, systemNamespacePrefix) {
			continue
		}
		findings = append(findings, c.checkNamespace(snap, ns)...)
	}
	return findings, nil
}

func (c NetworkPolicyChecker) checkNamespace(snap *models.ClusterSnapshot, ns string) []models.Finding {
	pods := snap.Pods(ns)
	if len(pods) == 0 {
		return nil
	}

	policies := snap.NetworkPolicies(ns)
	if len(policies) == 0 {
		return []models.Finding{{
			Severity:       models.SeverityHigh,
			Category:       models.CategoryNetworkPolicy,
			Title:          "No network policies defined",
			ResourceName:   "NetworkPolicy",
			Namespace:      ns,
			Description:    fmt.Sprintf("Namespace %q has %d pods but no network policies", ns, len(pods)),
			Recommendation: "Implement network policies to control traffic between pods",
			Remediation:    "Create default-deny ingress/egress policies and allow only necessary traffic",
		}}
	}

	var findings []models.Finding
	for _, policy := range policies {
		findings = append(findings, c.checkPolicy(policy)...)
	}

	if !hasDefaultDeny(policies) {
		findings = append(findings, models.Finding{
			Severity:       models.SeverityMedium,
			Category:       models.CategoryNetworkPolicy,
			Title:          "Missing default deny policy",
			ResourceName:   "NetworkPolicy",
			Namespace:      ns,
			Description:    fmt.Sprintf("No default-deny network policy found in namespace %q", ns),
			Recommendation: "Implement a default-deny policy and explicitly allow required traffic",
			Remediation:    "Create a policy that selects all pods with empty ingress/egress rules",
		})
	}
	return findings
}

// checkPolicy flags fully open rules: an ingress (egress) rule with no
// from (to) peers and no port restriction admits all traffic in that
// direction. At most one finding per policy and direction.
func (c NetworkPolicyChecker) checkPolicy(policy models.NetworkPolicyRecord) []models.Finding {
	var findings []models.Finding

	for _, rule := range policy.Ingress {
		if rule.PeerCount == 0 && rule.PortCount == 0 {
			findings = append(findings, models.Finding{
				Severity:       models.SeverityMedium,
				Category:       models.CategoryNetworkPolicy,
				Title:          "Overly permissive ingress rule",
				ResourceName:   policy.Name,
				Namespace:      policy.Namespace,
				Description:    fmt.Sprintf("Network policy %q has an ingress rule allowing traffic from all sources on all ports", policy.Name),
				Recommendation: "Restrict ingress to specific namespaces or pod selectors",
				Remediation:    "Add namespaceSelector or podSelector entries to limit traffic sources",
			})
			break
		}
	}

	for _, rule := range policy.Egress {
		if rule.PeerCount == 0 && rule.PortCount == 0 {
			findings = append(findings, models.Finding{
				Severity:       models.SeverityLow,
				Category:       models.CategoryNetworkPolicy,
				Title:          "Overly permissive egress rule",
				ResourceName:   policy.Name,
				Namespace:      policy.Namespace,
				Description:    fmt.Sprintf("Network policy %q allows unrestricted egress traffic", policy.Name),
				Recommendation: "Restrict egress to specific destinations",
				Remediation:    "Add a to: section with specific namespaceSelector or podSelector entries",
			})
			break
		}
	}

	return findings
}

// hasDefaultDeny reports whether any policy selects all pods in the
// namespace, which is the shape of a default-deny-all policy.
func hasDefaultDeny(policies []models.NetworkPolicyRecord) bool {
	for _, p := range policies {
		if p.SelectsAllPods {
			return true
		}
	}
	return false
}
