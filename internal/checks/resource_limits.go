package checks

import (
	"fmt"
	"strings"

	"kubescan/internal/models"
)

// ResourceLimitChecker flags containers without resource constraints.
// Each missing constraint is an independent finding; a container can
// accumulate up to three (memory limit, cpu limit, requests).
type ResourceLimitChecker struct{}

func (ResourceLimitChecker) Name() string              { return "ResourceLimitChecker" }
func (ResourceLimitChecker) Category() models.Category { return models.CategoryResourceLimits }

func (c ResourceLimitChecker) Evaluate(snap *models.ClusterSnapshot, namespaces []string) ([]models.Finding, error) {
	var findings []models.Finding
	for _, ns := range namespaces {
		if strings.HasPrefix(ns, systemNamespacePrefix) {
			continue
		}
		for _, pod := range snap.Pods(ns) {
			for _, container := range pod.Containers {
				findings = append(findings, c.checkContainer(ns, pod.Name, container)...)
			}
		}
	}
	return findings, nil
}

func (c ResourceLimitChecker) checkContainer(namespace, podName string, container models.ContainerRecord) []models.Finding {
	resource := fmt.Sprintf("%s/%s", podName, container.Name)
	var findings []models.Finding

	if container.MemoryLimit == "" {
		findings = append(findings, models.Finding{
			Severity:       models.SeverityMedium,
			Category:       models.CategoryResourceLimits,
			Title:          "Missing memory limit",
			ResourceName:   resource,
			Namespace:      namespace,
			Description:    fmt.Sprintf("Container %q has no memory limit defined - risk of OOM issues", container.Name),
			Recommendation: "Set memory limits to prevent the pod from consuming excessive memory",
			Remediation:    `Add resources.limits.memory (e.g. "512Mi" or "1Gi")`,
		})
	}

	if container.CPULimit == "" {
		findings = append(findings, models.Finding{
			Severity:       models.SeverityLow,
			Category:       models.CategoryResourceLimits,
			Title:          "Missing CPU limit",
			ResourceName:   resource,
			Namespace:      namespace,
			Description:    fmt.Sprintf("Container %q has no CPU limit defined", container.Name),
			Recommendation: "Set CPU limits to prevent resource exhaustion",
			Remediation:    `Add resources.limits.cpu (e.g. "500m" or "1")`,
		})
	}

	if container.CPURequest == "" || container.MemoryRequest == "" {
		findings = append(findings, models.Finding{
			Severity:       models.SeverityLow,
			Category:       models.CategoryResourceLimits,
			Title:          "Missing resource requests",
			ResourceName:   resource,
			Namespace:      namespace,
			Description:    fmt.Sprintf("Container %q does not declare CPU and memory requests", container.Name),
			Recommendation: "Set resource requests for proper scheduling",
			Remediation:    `Add resources.requests.cpu and resources.requests.memory (e.g. "250m" / "256Mi")`,
		})
	}

	return findings
}
