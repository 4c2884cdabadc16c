package models

import "sort"

// ContainerRecord holds the security-relevant configuration of one container.
// Pointer fields distinguish "unset" from an explicit false/zero, mirroring
// the optional fields in the pod spec.
type ContainerRecord struct {
	// Name is the container name within the pod spec.
	Name string

	// RunAsUser is securityContext.runAsUser. Nil means not configured.
	RunAsUser *int64

	// RunAsNonRoot is securityContext.runAsNonRoot. Nil means not configured.
	RunAsNonRoot *bool

	// Privileged is true when securityContext.privileged == true.
	Privileged bool

	// AllowPrivilegeEscalation is securityContext.allowPrivilegeEscalation.
	// Nil means not configured (the platform default allows escalation).
	AllowPrivilegeEscalation *bool

	// ReadOnlyRootFilesystem is securityContext.readOnlyRootFilesystem.
	// Nil means not configured.
	ReadOnlyRootFilesystem *bool

	// CapabilitiesAdded lists the Linux capabilities granted via
	// securityContext.capabilities.add, in declaration order.
	CapabilitiesAdded []string

	// CPULimit, MemoryLimit, CPURequest and MemoryRequest are Kubernetes
	// quantity strings (e.g. "500m", "512Mi"). Empty means not declared.
	CPULimit      string
	MemoryLimit   string
	CPURequest    string
	MemoryRequest string

	// SecurityContextPresent is true when the container declares any
	// securityContext at all.
	SecurityContextPresent bool
}

// PodRecord holds one pod and its ordered container list.
type PodRecord struct {
	Namespace string
	Name      string

	// ServiceAccountName is spec.serviceAccountName ("" when the pod spec
	// leaves it unset).
	ServiceAccountName string

	Containers []ContainerRecord
}

// ServiceAccountRecord holds ServiceAccount metadata used by RBAC checks.
type ServiceAccountRecord struct {
	Namespace string
	Name      string

	// AutomountToken reflects automountServiceAccountToken.
	// Nil means not set (Kubernetes defaults to true).
	AutomountToken *bool
}

// PolicyRule is one permission rule of a Role or ClusterRole.
// The literal "*" in any dimension is a wildcard matching every value;
// partial wildcards such as "pods/*" are treated as exact-match literals.
type PolicyRule struct {
	APIGroups []string
	Resources []string
	Verbs     []string
}

// RoleRecord is a Role (Namespace set) or ClusterRole (Namespace empty)
// together with its ordered rule list.
type RoleRecord struct {
	Namespace string
	Name      string
	Rules     []PolicyRule
}

// SubjectKind enumerates the identity kinds a binding can grant to.
type SubjectKind string

const (
	SubjectServiceAccount SubjectKind = "ServiceAccount"
	SubjectUser           SubjectKind = "User"
	SubjectGroup          SubjectKind = "Group"
)

// Subject is one identity listed in a binding.
type Subject struct {
	Kind SubjectKind
	Name string

	// Namespace is set for ServiceAccount subjects; empty otherwise.
	Namespace string
}

// RoleScope identifies whether a binding's roleRef targets a namespaced
// Role or a ClusterRole.
type RoleScope string

const (
	ScopeRole        RoleScope = "Role"
	ScopeClusterRole RoleScope = "ClusterRole"
)

// BindingRecord is a RoleBinding (Namespace set) or ClusterRoleBinding
// (Namespace empty).
type BindingRecord struct {
	Namespace    string
	Name         string
	Subjects     []Subject
	RoleRefName  string
	RoleRefScope RoleScope
}

// ClusterScoped reports whether the binding is a ClusterRoleBinding.
func (b BindingRecord) ClusterScoped() bool { return b.Namespace == "" }

// NetworkPolicyRuleRecord summarizes one ingress or egress rule.
type NetworkPolicyRuleRecord struct {
	// PeerCount is the number of from/to peers. Zero means the rule is
	// open to all sources or destinations.
	PeerCount int

	// PortCount is the number of port restrictions. Zero means all ports.
	PortCount int
}

// NetworkPolicyRecord holds one NetworkPolicy.
type NetworkPolicyRecord struct {
	Namespace string
	Name      string

	// SelectsAllPods is true when spec.podSelector is empty, i.e. the
	// policy applies to every pod in the namespace.
	SelectsAllPods bool

	Ingress []NetworkPolicyRuleRecord
	Egress  []NetworkPolicyRuleRecord
}

// DeploymentRecord holds Deployment inventory data surfaced in reports.
type DeploymentRecord struct {
	Namespace string
	Name      string
	Replicas  int32
}

// roleKey addresses a role by (scope, name); namespace is empty for
// cluster-scoped roles.
type roleKey struct {
	namespace string
	name      string
}

// ClusterSnapshot is the immutable per-scan view of cluster resources,
// keyed by namespace. It is built once via SnapshotBuilder and never
// mutated afterwards, so checkers can read it concurrently without
// synchronization. Accessors return internal slices; callers must treat
// them as read-only.
type ClusterSnapshot struct {
	namespaces []string

	pods            map[string][]PodRecord
	serviceAccounts map[string][]ServiceAccountRecord
	roles           map[string][]RoleRecord
	roleBindings    map[string][]BindingRecord
	networkPolicies map[string][]NetworkPolicyRecord
	deployments     map[string][]DeploymentRecord

	clusterRoles        []RoleRecord
	clusterRoleBindings []BindingRecord

	roleIndex map[roleKey]RoleRecord
}

// Namespaces returns the scanned namespace names in discovery order.
func (s *ClusterSnapshot) Namespaces() []string { return s.namespaces }

// Pods returns the pods of ns sorted by name.
func (s *ClusterSnapshot) Pods(ns string) []PodRecord { return s.pods[ns] }

// ServiceAccounts returns the service accounts of ns sorted by name.
func (s *ClusterSnapshot) ServiceAccounts(ns string) []ServiceAccountRecord {
	return s.serviceAccounts[ns]
}

// Roles returns the namespaced roles of ns sorted by name.
func (s *ClusterSnapshot) Roles(ns string) []RoleRecord { return s.roles[ns] }

// RoleBindings returns the role bindings of ns sorted by name.
func (s *ClusterSnapshot) RoleBindings(ns string) []BindingRecord { return s.roleBindings[ns] }

// NetworkPolicies returns the network policies of ns sorted by name.
func (s *ClusterSnapshot) NetworkPolicies(ns string) []NetworkPolicyRecord {
	return s.networkPolicies[ns]
}

// Deployments returns the deployments of ns sorted by name.
func (s *ClusterSnapshot) Deployments(ns string) []DeploymentRecord { return s.deployments[ns] }

// ClusterRoles returns all cluster-scoped roles sorted by name.
func (s *ClusterSnapshot) ClusterRoles() []RoleRecord { return s.clusterRoles }

// ClusterRoleBindings returns all cluster role bindings sorted by name.
func (s *ClusterSnapshot) ClusterRoleBindings() []BindingRecord { return s.clusterRoleBindings }

// Role looks up a namespaced Role by name.
func (s *ClusterSnapshot) Role(namespace, name string) (RoleRecord, bool) {
	r, ok := s.roleIndex[roleKey{namespace: namespace, name: name}]
	return r, ok
}

// ClusterRole looks up a ClusterRole by name.
func (s *ClusterSnapshot) ClusterRole(name string) (RoleRecord, bool) {
	r, ok := s.roleIndex[roleKey{name: name}]
	return r, ok
}

// SnapshotBuilder populates a ClusterSnapshot exactly once. The data
// provider calls the Add methods during collection and Build to freeze the
// result; Build sorts every per-namespace collection by name so checker
// output is deterministic regardless of API list order. Calling any method
// after Build panics to catch wiring mistakes.
type SnapshotBuilder struct {
	snap  *ClusterSnapshot
	seen  map[string]struct{}
	built bool
}

// NewSnapshotBuilder returns an empty builder.
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{
		snap: &ClusterSnapshot{
			pods:            make(map[string][]PodRecord),
			serviceAccounts: make(map[string][]ServiceAccountRecord),
			roles:           make(map[string][]RoleRecord),
			roleBindings:    make(map[string][]BindingRecord),
			networkPolicies: make(map[string][]NetworkPolicyRecord),
			deployments:     make(map[string][]DeploymentRecord),
			roleIndex:       make(map[roleKey]RoleRecord),
		},
		seen: make(map[string]struct{}),
	}
}

func (b *SnapshotBuilder) checkOpen() {
	if b.built {
		panic("models: SnapshotBuilder used after Build")
	}
}

// AddNamespace records a scanned namespace. Duplicates are ignored;
// insertion order is preserved as the discovery order.
func (b *SnapshotBuilder) AddNamespace(name string) *SnapshotBuilder {
	b.checkOpen()
	if _, ok := b.seen[name]; ok {
		return b
	}
	b.seen[name] = struct{}{}
	b.snap.namespaces = append(b.snap.namespaces, name)
	return b
}

// AddPod adds a pod to its namespace.
func (b *SnapshotBuilder) AddPod(p PodRecord) *SnapshotBuilder {
	b.checkOpen()
	b.snap.pods[p.Namespace] = append(b.snap.pods[p.Namespace], p)
	return b
}

// AddServiceAccount adds a service account to its namespace.
func (b *SnapshotBuilder) AddServiceAccount(sa ServiceAccountRecord) *SnapshotBuilder {
	b.checkOpen()
	b.snap.serviceAccounts[sa.Namespace] = append(b.snap.serviceAccounts[sa.Namespace], sa)
	return b
}

// AddRole adds a namespaced Role; the record's Namespace must be set.
func (b *SnapshotBuilder) AddRole(r RoleRecord) *SnapshotBuilder {
	b.checkOpen()
	b.snap.roles[r.Namespace] = append(b.snap.roles[r.Namespace], r)
	b.snap.roleIndex[roleKey{namespace: r.Namespace, name: r.Name}] = r
	return b
}

// AddClusterRole adds a cluster-scoped role; the record's Namespace is
// forced empty.
func (b *SnapshotBuilder) AddClusterRole(r RoleRecord) *SnapshotBuilder {
	b.checkOpen()
	r.Namespace = ""
	b.snap.clusterRoles = append(b.snap.clusterRoles, r)
	b.snap.roleIndex[roleKey{name: r.Name}] = r
	return b
}

// AddRoleBinding adds a namespaced RoleBinding; the record's Namespace
// must be set.
func (b *SnapshotBuilder) AddRoleBinding(rb BindingRecord) *SnapshotBuilder {
	b.checkOpen()
	b.snap.roleBindings[rb.Namespace] = append(b.snap.roleBindings[rb.Namespace], rb)
	return b
}

// AddClusterRoleBinding adds a ClusterRoleBinding; the record's Namespace
// is forced empty.
func (b *SnapshotBuilder) AddClusterRoleBinding(rb BindingRecord) *SnapshotBuilder {
	b.checkOpen()
	rb.Namespace = ""
	b.snap.clusterRoleBindings = append(b.snap.clusterRoleBindings, rb)
	return b
}

// AddNetworkPolicy adds a network policy to its namespace.
func (b *SnapshotBuilder) AddNetworkPolicy(np NetworkPolicyRecord) *SnapshotBuilder {
	b.checkOpen()
	b.snap.networkPolicies[np.Namespace] = append(b.snap.networkPolicies[np.Namespace], np)
	return b
}

// AddDeployment adds a deployment to its namespace.
func (b *SnapshotBuilder) AddDeployment(d DeploymentRecord) *SnapshotBuilder {
	b.checkOpen()
	b.snap.deployments[d.Namespace] = append(b.snap.deployments[d.Namespace], d)
	return b
}

// Build sorts all collections by resource name, freezes the builder and
// returns the snapshot. The returned snapshot must never be mutated.
func (b *SnapshotBuilder) Build() *ClusterSnapshot {
	b.checkOpen()
	b.built = true

	for ns := range b.snap.pods {
		pods := b.snap.pods[ns]
		sort.SliceStable(pods, func(i, j int) bool { return pods[i].Name < pods[j].Name })
	}
	for ns := range b.snap.serviceAccounts {
		sas := b.snap.serviceAccounts[ns]
		sort.SliceStable(sas, func(i, j int) bool { return sas[i].Name < sas[j].Name })
	}
	for ns := range b.snap.roles {
		roles := b.snap.roles[ns]
		sort.SliceStable(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	}
	for ns := range b.snap.roleBindings {
		rbs := b.snap.roleBindings[ns]
		sort.SliceStable(rbs, func(i, j int) bool { return rbs[i].Name < rbs[j].Name })
	}
	for ns := range b.snap.networkPolicies {
		nps := b.snap.networkPolicies[ns]
		sort.SliceStable(nps, func(i, j int) bool { return nps[i].Name < nps[j].Name })
	}
	for ns := range b.snap.deployments {
		deps := b.snap.deployments[ns]
		sort.SliceStable(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	}
	sort.SliceStable(b.snap.clusterRoles, func(i, j int) bool {
		return b.snap.clusterRoles[i].Name < b.snap.clusterRoles[j].Name
	})
	sort.SliceStable(b.snap.clusterRoleBindings, func(i, j int) bool {
		return b.snap.clusterRoleBindings[i].Name < b.snap.clusterRoleBindings[j].Name
	})

	return b.snap
}
