package checks

import (
	"fmt"
	"strings"

	"kubescan/internal/models"
)

// dangerousCapabilities are Linux capabilities that grant host-level or
// cross-container access when added to a container.
var dangerousCapabilities = map[string]struct{}{
	"SYS_ADMIN":    {},
	"NET_ADMIN":    {},
	"SYS_MODULE":   {},
	"SYS_RAWIO":    {},
	"SYS_PTRACE":   {},
	"SYS_BOOT":     {},
	"MAC_ADMIN":    {},
	"MAC_OVERRIDE": {},
}

// PodSecurityChecker inspects every container for insecure security
// context configuration. Each rule is evaluated independently; a single
// container can produce several findings of different severities.
type PodSecurityChecker struct{}

func (PodSecurityChecker) Name() string              { return "PodSecurityChecker" }
func (PodSecurityChecker) Category() models.Category { return models.CategoryPodSecurity }

// Evaluate walks pods namespace by namespace in the given order; within a
// namespace pods and containers keep snapshot order, and the per-container
// rules fire in fixed severity order.
func (c PodSecurityChecker) Evaluate(snap *models.ClusterSnapshot, namespaces []string) ([]models.Finding, error) {
	var findings []models.Finding
	for _, ns := range namespaces {
		for _, pod := range snap.Pods(ns) {
			for _, container := range pod.Containers {
				findings = append(findings, c.checkContainer(ns, pod.Name, container)...)
			}
		}
	}
	return findings, nil
}

func (c PodSecurityChecker) checkContainer(namespace, podName string, container models.ContainerRecord) []models.Finding {
	resource := fmt.Sprintf("%s/%s", podName, container.Name)
	var findings []models.Finding

	if runsAsRoot(container) {
		findings = append(findings, models.Finding{
			Severity:       models.SeverityCritical,
			Category:       models.CategoryPodSecurity,
			Title:          "Container running as root (UID 0)",
			ResourceName:   resource,
			Namespace:      namespace,
			Description:    fmt.Sprintf("Container %q in pod %q is running as root user (UID 0)", container.Name, podName),
			Recommendation: "Set runAsUser to a non-zero value in securityContext",
			Remediation:    "Add securityContext with runAsUser: 1000 (or any non-zero UID)",
		})
	}

	if container.Privileged {
		findings = append(findings, models.Finding{
			Severity:       models.SeverityCritical,
			Category:       models.CategoryPodSecurity,
			Title:          "Privileged container detected",
			ResourceName:   resource,
			Namespace:      namespace,
			Description:    fmt.Sprintf("Container %q is running in privileged mode", container.Name),
			Recommendation: "Remove privileged: true from securityContext unless absolutely necessary",
			Remediation:    "Set privileged: false or remove the privileged field entirely",
		})
	}

	for _, capName := range dangerousCapsOf(container) {
		findings = append(findings, models.Finding{
			Severity:       models.SeverityHigh,
			Category:       models.CategoryPodSecurity,
			Title:          fmt.Sprintf("Dangerous capability %s granted", capName),
			ResourceName:   resource,
			Namespace:      namespace,
			Description:    fmt.Sprintf("Container %q adds the dangerous capability %s", container.Name, capName),
			Recommendation: "Remove unnecessary capabilities, especially SYS_ADMIN and NET_ADMIN",
			Remediation:    `Drop all capabilities and add only required ones using drop: ["ALL"] and add: [...]`,
		})
	}

	if allowsPrivilegeEscalation(container) {
		findings = append(findings, models.Finding{
			Severity:       models.SeverityHigh,
			Category:       models.CategoryPodSecurity,
			Title:          "Privilege escalation allowed",
			ResourceName:   resource,
			Namespace:      namespace,
			Description:    fmt.Sprintf("Container %q allows privilege escalation", container.Name),
			Recommendation: "Set allowPrivilegeEscalation: false in securityContext",
			Remediation:    "Add allowPrivilegeEscalation: false to container securityContext",
		})
	}

	if !container.SecurityContextPresent {
		findings = append(findings, models.Finding{
			Severity:       models.SeverityMedium,
			Category:       models.CategoryPodSecurity,
			Title:          "Missing security context",
			ResourceName:   resource,
			Namespace:      namespace,
			Description:    fmt.Sprintf("Container %q has no securityContext defined", container.Name),
			Recommendation: "Define a securityContext with appropriate settings",
			Remediation:    "Add securityContext with runAsNonRoot: true, allowPrivilegeEscalation: false",
		})
	}

	if container.ReadOnlyRootFilesystem == nil || !*container.ReadOnlyRootFilesystem {
		findings = append(findings, models.Finding{
			Severity:       models.SeverityLow,
			Category:       models.CategoryPodSecurity,
			Title:          "Root filesystem is writable",
			ResourceName:   resource,
			Namespace:      namespace,
			Description:    fmt.Sprintf("Container %q root filesystem is not read-only", container.Name),
			Recommendation: "Set readOnlyRootFilesystem: true unless write access is required",
			Remediation:    "Add readOnlyRootFilesystem: true to securityContext and use volumes for writable data",
		})
	}

	return findings
}

// runsAsRoot reports whether the container runs, or may run, as UID 0:
// either runAsUser is explicitly 0, or runAsUser is unset and runAsNonRoot
// is not explicitly true.
func runsAsRoot(c models.ContainerRecord) bool {
	if c.RunAsUser != nil {
		return *c.RunAsUser == 0
	}
	return c.RunAsNonRoot == nil || !*c.RunAsNonRoot
}

// allowsPrivilegeEscalation reports whether escalation is explicitly
// enabled or left at the platform default (allowed).
func allowsPrivilegeEscalation(c models.ContainerRecord) bool {
	return c.AllowPrivilegeEscalation == nil || *c.AllowPrivilegeEscalation
}

// dangerousCapsOf returns the dangerous capabilities the container adds,
// in declaration order and de-duplicated. Capability names are compared
// without the optional CAP_ prefix.
func dangerousCapsOf(c models.ContainerRecord) []string {
	var caps []string
	seen := make(map[string]struct{})
	for _, raw := range c.CapabilitiesAdded {
		name := strings.TrimPrefix(raw, "CAP_")
		if _, dangerous := dangerousCapabilities[name]; !dangerous {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		caps = append(caps, name)
	}
	return caps
}
