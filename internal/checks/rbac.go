package checks

import (
	"fmt"

	"kubescan/internal/models"
)

// wildcard is the literal token that matches every value in a rule
// dimension. Partial globs like "pods/*" are NOT expanded; they only
// match themselves.
const wildcard = "*"

// clusterAdminRole is the built-in ClusterRole granting full cluster access.
const clusterAdminRole = "cluster-admin"

// elevatedBuiltinRoles are the built-in roles with broad write access
// short of cluster-admin.
var elevatedBuiltinRoles = map[string]struct{}{
	"admin": {},
	"edit":  {},
}

// writeVerbs must all be grantable for a rule to count as elevated.
var writeVerbs = []string{"create", "update", "patch", "delete"}

// defaultServiceAccount is the implicit identity a workload uses when the
// pod spec names none.
const defaultServiceAccount = "default"

// grantClass ranks the danger level of a resolved permission set.
type grantClass int

const (
	grantScoped grantClass = iota
	grantElevated
	grantClusterAdmin
)

// RBACChecker resolves every RoleBinding and ClusterRoleBinding to the
// effective permission set it grants, classifies the grant, and emits at
// most one finding per (binding, subject) pair at the highest applicable
// severity. Bindings whose roleRef does not resolve in the snapshot are
// skipped: an unresolvable grant conveys no privilege.
type RBACChecker struct{}

func (RBACChecker) Name() string              { return "RBACChecker" }
func (RBACChecker) Category() models.Category { return models.CategoryRBAC }

// Evaluate analyzes cluster-scoped bindings first, then the bindings of
// each requested namespace, then the service-account hygiene checks.
func (c RBACChecker) Evaluate(snap *models.ClusterSnapshot, namespaces []string) ([]models.Finding, error) {
	analyzer := privilegeAnalyzer{snap: snap}

	var findings []models.Finding
	for _, binding := range snap.ClusterRoleBindings() {
		findings = append(findings, analyzer.analyzeBinding(binding)...)
	}
	for _, ns := range namespaces {
		for _, binding := range snap.RoleBindings(ns) {
			findings = append(findings, analyzer.analyzeBinding(binding)...)
		}
	}

	findings = append(findings, c.checkServiceAccounts(snap, namespaces)...)
	return findings, nil
}

// checkServiceAccounts flags default-ServiceAccount hygiene issues:
// a default account that still auto-mounts its API token, and pods that
// explicitly run as the default account.
func (c RBACChecker) checkServiceAccounts(snap *models.ClusterSnapshot, namespaces []string) []models.Finding {
	var findings []models.Finding
	for _, ns := range namespaces {
		for _, sa := range snap.ServiceAccounts(ns) {
			if sa.Name != defaultServiceAccount {
				continue
			}
			if sa.AutomountToken != nil && !*sa.AutomountToken {
				continue
			}
			findings = append(findings, models.Finding{
				Severity:       models.SeverityMedium,
				Category:       models.CategoryRBAC,
				Title:          "Default service account auto-mounts API token",
				ResourceName:   sa.Name,
				Namespace:      ns,
				Description:    fmt.Sprintf("The default service account in namespace %q auto-mounts its API token into pods; any compromised container using it gains Kubernetes API access", ns),
				Recommendation: "Disable token auto-mount on the default service account",
				Remediation:    "Set automountServiceAccountToken: false on the default ServiceAccount and opt in per pod only where API access is required",
			})
		}
		for _, pod := range snap.Pods(ns) {
			if pod.ServiceAccountName != defaultServiceAccount {
				continue
			}
			findings = append(findings, models.Finding{
				Severity:       models.SeverityLow,
				Category:       models.CategoryRBAC,
				Title:          "Pod uses default service account",
				ResourceName:   pod.Name,
				Namespace:      ns,
				Description:    fmt.Sprintf("Pod %q runs as the default service account and shares any permissions accumulated on it", pod.Name),
				Recommendation: "Create dedicated service accounts for applications",
				Remediation:    "Create an app-specific service account and set spec.serviceAccountName on the pod",
			})
		}
	}
	return findings
}

// privilegeAnalyzer resolves bindings to effective permission sets and
// classifies them. Role resolution is a direct map lookup keyed by
// (scope, name); there is no graph traversal and no cycle handling needed.
type privilegeAnalyzer struct {
	snap *models.ClusterSnapshot
}

// resolve returns the rules granted by the binding's roleRef, or false if
// the reference is dangling.
func (a privilegeAnalyzer) resolve(b models.BindingRecord) ([]models.PolicyRule, bool) {
	switch b.RoleRefScope {
	case models.ScopeClusterRole:
		role, ok := a.snap.ClusterRole(b.RoleRefName)
		return role.Rules, ok
	case models.ScopeRole:
		role, ok := a.snap.Role(b.Namespace, b.RoleRefName)
		return role.Rules, ok
	}
	return nil, false
}

// classify ranks the grant:
//   - cluster-admin-equivalent: the roleRef is the built-in cluster-admin
//     ClusterRole, or any rule carries the wildcard in all three dimensions
//   - elevated: the roleRef is a known elevated built-in (admin, edit), or
//     any rule grants create+update+patch+delete over the resource wildcard
//   - scoped: everything else
func (a privilegeAnalyzer) classify(b models.BindingRecord, rules []models.PolicyRule) grantClass {
	if b.RoleRefScope == models.ScopeClusterRole && b.RoleRefName == clusterAdminRole {
		return grantClusterAdmin
	}
	for _, rule := range rules {
		if containsLiteral(rule.APIGroups, wildcard) &&
			containsLiteral(rule.Resources, wildcard) &&
			containsLiteral(rule.Verbs, wildcard) {
			return grantClusterAdmin
		}
	}
	if _, ok := elevatedBuiltinRoles[b.RoleRefName]; ok {
		return grantElevated
	}
	for _, rule := range rules {
		if containsLiteral(rule.Resources, wildcard) && grantsAllWriteVerbs(rule.Verbs) {
			return grantElevated
		}
	}
	return grantScoped
}

// analyzeBinding emits at most one finding per subject at the highest
// severity the grant classification and subject identity justify.
func (a privilegeAnalyzer) analyzeBinding(b models.BindingRecord) []models.Finding {
	rules, ok := a.resolve(b)
	if !ok {
		return nil // dangling roleRef: no privilege, no finding
	}
	class := a.classify(b, rules)

	var findings []models.Finding
	seen := make(map[models.Subject]struct{})
	for _, subject := range b.Subjects {
		if _, dup := seen[subject]; dup {
			continue
		}
		seen[subject] = struct{}{}

		if f, ok := a.subjectFinding(b, subject, class); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

// subjectFinding picks the single highest-severity rule that applies to
// the (binding, subject) pair.
func (a privilegeAnalyzer) subjectFinding(b models.BindingRecord, s models.Subject, class grantClass) (models.Finding, bool) {
	namespace := bindingNamespace(b, s)
	switch {
	case class == grantClusterAdmin && isDefaultServiceAccount(s):
		return models.Finding{
			Severity:       models.SeverityCritical,
			Category:       models.CategoryRBAC,
			Title:          "cluster-admin privileges granted to default service account",
			ResourceName:   b.Name,
			Namespace:      namespace,
			Description:    fmt.Sprintf("The default service account in namespace %q holds cluster-admin-equivalent privileges through binding %q (full cluster access)", s.Namespace, b.Name),
			Recommendation: "Never grant cluster-admin to the default service account",
			Remediation:    "Remove the binding and create a dedicated service account with a least-privilege role",
		}, true

	case class == grantClusterAdmin:
		return models.Finding{
			Severity:       models.SeverityHigh,
			Category:       models.CategoryRBAC,
			Title:          fmt.Sprintf("cluster-admin privileges granted to %s", s.Kind),
			ResourceName:   b.Name,
			Namespace:      namespace,
			Description:    fmt.Sprintf("%s %q has cluster-admin-equivalent privileges through binding %q (full cluster access)", s.Kind, s.Name, b.Name),
			Recommendation: "Use least-privilege RBAC - grant only necessary permissions",
			Remediation:    "Create a custom role with specific permissions instead of cluster-admin",
		}, true

	case class == grantElevated && b.ClusterScoped():
		return models.Finding{
			Severity:       models.SeverityHigh,
			Category:       models.CategoryRBAC,
			Title:          fmt.Sprintf("Elevated role %q granted cluster-wide to %s", b.RoleRefName, s.Kind),
			ResourceName:   b.Name,
			Namespace:      namespace,
			Description:    fmt.Sprintf("%s %q holds the elevated role %q across the entire cluster via binding %q", s.Kind, s.Name, b.RoleRefName, b.Name),
			Recommendation: "Review if cluster-wide access at this level is necessary",
			Remediation:    "Replace the ClusterRoleBinding with namespace-scoped RoleBindings carrying minimal permissions",
		}, true

	case class == grantElevated:
		return models.Finding{
			Severity:       models.SeverityMedium,
			Category:       models.CategoryRBAC,
			Title:          fmt.Sprintf("Elevated role %q granted to %s", b.RoleRefName, s.Kind),
			ResourceName:   b.Name,
			Namespace:      namespace,
			Description:    fmt.Sprintf("%s %q has the elevated role %q with broad permissions in namespace %q", s.Kind, s.Name, b.RoleRefName, b.Namespace),
			Recommendation: "Review if this level of access is necessary",
			Remediation:    "Consider creating a custom role with minimal required permissions",
		}, true

	case isDefaultServiceAccount(s):
		return models.Finding{
			Severity:       models.SeverityLow,
			Category:       models.CategoryRBAC,
			Title:          "Default service account in use",
			ResourceName:   b.Name,
			Namespace:      namespace,
			Description:    fmt.Sprintf("Binding %q grants permissions to the default service account in namespace %q", b.Name, s.Namespace),
			Recommendation: "Create dedicated service accounts for applications",
			Remediation:    "Create an app-specific service account and rebind the role to it",
		}, true
	}
	return models.Finding{}, false
}

// bindingNamespace selects the Namespace field for a binding finding:
// the binding's own namespace when namespaced, otherwise the subject's
// namespace, otherwise the cluster-scope sentinel.
func bindingNamespace(b models.BindingRecord, s models.Subject) string {
	if !b.ClusterScoped() {
		return b.Namespace
	}
	if s.Namespace != "" {
		return s.Namespace
	}
	return models.ClusterScopedNamespace
}

func isDefaultServiceAccount(s models.Subject) bool {
	return s.Kind == models.SubjectServiceAccount && s.Name == defaultServiceAccount
}

// containsLiteral reports whether the set contains the exact token.
func containsLiteral(set []string, token string) bool {
	for _, v := range set {
		if v == token {
			return true
		}
	}
	return false
}

// grantsAllWriteVerbs reports whether the verb set covers every write
// verb, either via the wildcard or by listing each one.
func grantsAllWriteVerbs(verbs []string) bool {
	for _, want := range writeVerbs {
		if !matchesValue(verbs, want) {
			return false
		}
	}
	return true
}

// matchesValue implements the set-based wildcard rule: a dimension matches
// a value when it contains the literal wildcard token or the exact value.
func matchesValue(set []string, value string) bool {
	return containsLiteral(set, wildcard) || containsLiteral(set, value)
}
