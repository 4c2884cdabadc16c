package kubernetes

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sclient "k8s.io/client-go/kubernetes"

	"kubescan/internal/models"
)

// CollectSnapshot gathers all resources the checkers consume and freezes
// them into a ClusterSnapshot. When namespace is non-empty only that
// namespace is scanned; otherwise every namespace in the cluster is
// discovered and scanned in list order. Cluster-scoped RBAC resources are
// always collected in full.
//
// The returned namespace slice is the ordered set the snapshot was
// populated for; it is the namespaces argument to Pipeline.Evaluate.
func CollectSnapshot(ctx context.Context, clientset k8sclient.Interface, namespace string) (*models.ClusterSnapshot, []string, error) {
	builder := models.NewSnapshotBuilder()

	namespaces, err := resolveNamespaces(ctx, clientset, namespace)
	if err != nil {
		return nil, nil, err
	}
	for _, ns := range namespaces {
		builder.AddNamespace(ns)
	}

	for _, ns := range namespaces {
		if err := collectNamespace(ctx, clientset, ns, builder); err != nil {
			return nil, nil, err
		}
	}

	if err := collectClusterRBAC(ctx, clientset, builder); err != nil {
		return nil, nil, err
	}

	return builder.Build(), namespaces, nil
}

// resolveNamespaces returns the single requested namespace, or every
// namespace in the cluster in list order.
func resolveNamespaces(ctx context.Context, clientset k8sclient.Interface, namespace string) ([]string, error) {
	if namespace != "" {
		return []string{namespace}, nil
	}
	nsList, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	names := make([]string, 0, len(nsList.Items))
	for _, ns := range nsList.Items {
		names = append(names, ns.Name)
	}
	return names, nil
}

// collectNamespace gathers all namespace-scoped resources of ns.
func collectNamespace(ctx context.Context, clientset k8sclient.Interface, ns string, builder *models.SnapshotBuilder) error {
	podList, err := clientset.CoreV1().Pods(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list pods in %q: %w", ns, err)
	}
	for _, pod := range podList.Items {
		builder.AddPod(convertPod(pod))
	}

	saList, err := clientset.CoreV1().ServiceAccounts(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list service accounts in %q: %w", ns, err)
	}
	for _, sa := range saList.Items {
		builder.AddServiceAccount(models.ServiceAccountRecord{
			Namespace:      sa.Namespace,
			Name:           sa.Name,
			AutomountToken: sa.AutomountServiceAccountToken,
		})
	}

	roleList, err := clientset.RbacV1().Roles(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list roles in %q: %w", ns, err)
	}
	for _, role := range roleList.Items {
		builder.AddRole(models.RoleRecord{
			Namespace: role.Namespace,
			Name:      role.Name,
			Rules:     convertRules(role.Rules),
		})
	}

	rbList, err := clientset.RbacV1().RoleBindings(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list role bindings in %q: %w", ns, err)
	}
	for _, rb := range rbList.Items {
		builder.AddRoleBinding(models.BindingRecord{
			Namespace:    rb.Namespace,
			Name:         rb.Name,
			Subjects:     convertSubjects(rb.Subjects),
			RoleRefName:  rb.RoleRef.Name,
			RoleRefScope: models.RoleScope(rb.RoleRef.Kind),
		})
	}

	npList, err := clientset.NetworkingV1().NetworkPolicies(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list network policies in %q: %w", ns, err)
	}
	for _, np := range npList.Items {
		record := models.NetworkPolicyRecord{
			Namespace:      np.Namespace,
			Name:           np.Name,
			SelectsAllPods: len(np.Spec.PodSelector.MatchLabels) == 0 && len(np.Spec.PodSelector.MatchExpressions) == 0,
		}
		for _, rule := range np.Spec.Ingress {
			record.Ingress = append(record.Ingress, models.NetworkPolicyRuleRecord{
				PeerCount: len(rule.From),
				PortCount: len(rule.Ports),
			})
		}
		for _, rule := range np.Spec.Egress {
			record.Egress = append(record.Egress, models.NetworkPolicyRuleRecord{
				PeerCount: len(rule.To),
				PortCount: len(rule.Ports),
			})
		}
		builder.AddNetworkPolicy(record)
	}

	depList, err := clientset.AppsV1().Deployments(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list deployments in %q: %w", ns, err)
	}
	for _, dep := range depList.Items {
		replicas := int32(1)
		if dep.Spec.Replicas != nil {
			replicas = *dep.Spec.Replicas
		}
		builder.AddDeployment(models.DeploymentRecord{
			Namespace: dep.Namespace,
			Name:      dep.Name,
			Replicas:  replicas,
		})
	}

	return nil
}

// collectClusterRBAC gathers ClusterRoles and ClusterRoleBindings, which
// are shared across all scanned namespaces.
func collectClusterRBAC(ctx context.Context, clientset k8sclient.Interface, builder *models.SnapshotBuilder) error {
	crList, err := clientset.RbacV1().ClusterRoles().List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list cluster roles: %w", err)
	}
	for _, cr := range crList.Items {
		builder.AddClusterRole(models.RoleRecord{
			Name:  cr.Name,
			Rules: convertRules(cr.Rules),
		})
	}

	crbList, err := clientset.RbacV1().ClusterRoleBindings().List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list cluster role bindings: %w", err)
	}
	for _, crb := range crbList.Items {
		builder.AddClusterRoleBinding(models.BindingRecord{
			Name:         crb.Name,
			Subjects:     convertSubjects(crb.Subjects),
			RoleRefName:  crb.RoleRef.Name,
			RoleRefScope: models.RoleScope(crb.RoleRef.Kind),
		})
	}
	return nil
}

// convertPod translates a corev1.Pod into a PodRecord. Only the
// container-level securityContext is inspected; pod-level defaults are
// not folded in.
func convertPod(pod corev1.Pod) models.PodRecord {
	record := models.PodRecord{
		Namespace:          pod.Namespace,
		Name:               pod.Name,
		ServiceAccountName: pod.Spec.ServiceAccountName,
	}
	for _, c := range pod.Spec.Containers {
		record.Containers = append(record.Containers, convertContainer(c))
	}
	return record
}

func convertContainer(c corev1.Container) models.ContainerRecord {
	record := models.ContainerRecord{
		Name:          c.Name,
		CPULimit:      quantityString(c.Resources.Limits, corev1.ResourceCPU),
		MemoryLimit:   quantityString(c.Resources.Limits, corev1.ResourceMemory),
		CPURequest:    quantityString(c.Resources.Requests, corev1.ResourceCPU),
		MemoryRequest: quantityString(c.Resources.Requests, corev1.ResourceMemory),
	}
	sc := c.SecurityContext
	if sc == nil {
		return record
	}
	record.SecurityContextPresent = true
	record.RunAsUser = sc.RunAsUser
	record.RunAsNonRoot = sc.RunAsNonRoot
	record.Privileged = sc.Privileged != nil && *sc.Privileged
	record.AllowPrivilegeEscalation = sc.AllowPrivilegeEscalation
	record.ReadOnlyRootFilesystem = sc.ReadOnlyRootFilesystem
	if sc.Capabilities != nil {
		for _, capability := range sc.Capabilities.Add {
			record.CapabilitiesAdded = append(record.CapabilitiesAdded, string(capability))
		}
	}
	return record
}

// quantityString renders one resource quantity, or "" when not declared.
func quantityString(list corev1.ResourceList, name corev1.ResourceName) string {
	q, ok := list[name]
	if !ok || q.IsZero() {
		return ""
	}
	return q.String()
}

func convertRules(rules []rbacv1.PolicyRule) []models.PolicyRule {
	out := make([]models.PolicyRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, models.PolicyRule{
			APIGroups: append([]string(nil), r.APIGroups...),
			Resources: append([]string(nil), r.Resources...),
			Verbs:     append([]string(nil), r.Verbs...),
		})
	}
	return out
}

func convertSubjects(subjects []rbacv1.Subject) []models.Subject {
	out := make([]models.Subject, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, models.Subject{
			Kind:      models.SubjectKind(s.Kind),
			Name:      s.Name,
			Namespace: s.Namespace,
		})
	}
	return out
}
