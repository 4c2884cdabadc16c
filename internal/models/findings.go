package models

// Severity represents the impact level of a finding.
// Severities form a total order: CRITICAL > HIGH > MEDIUM > LOW > INFO.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// severityRank maps Severity values to sort keys (lower = more severe).
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityInfo:     4,
}

// Rank returns the sort key for s; lower ranks are more severe.
// Unrecognized severities rank after every known level.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// Valid reports whether s is one of the five recognized severity levels.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Severities lists all severity levels from most to least severe.
// Summary views and reports iterate this slice to get a stable order.
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// Category identifies the policy area a finding belongs to.
type Category string

const (
	CategoryPodSecurity    Category = "Pod Security"
	CategoryRBAC           Category = "RBAC"
	CategoryNetworkPolicy  Category = "Network Policy"
	CategoryResourceLimits Category = "Resource Limits"
)

// Categories lists all finding categories in checker registration order.
var Categories = []Category{
	CategoryPodSecurity,
	CategoryRBAC,
	CategoryNetworkPolicy,
	CategoryResourceLimits,
}

// ClusterScopedNamespace is the Namespace value used for findings on
// cluster-scoped resources such as ClusterRoleBindings without a
// namespaced subject.
const ClusterScopedNamespace = "N/A"

// Finding is a single detected security issue.
// It is the atomic output unit of every checker and has no identity beyond
// its field values; two findings with identical fields are duplicates.
type Finding struct {
	Severity       Severity `json:"severity"`
	Category       Category `json:"category"`
	Title          string   `json:"title"`
	ResourceName   string   `json:"resource_name"`
	Namespace      string   `json:"namespace"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	Remediation    string   `json:"remediation"`
}

// PostureLevel is the single derived label summarizing the worst severity
// present in a scan.
type PostureLevel string

const (
	PostureCritical PostureLevel = "CRITICAL"
	PostureHigh     PostureLevel = "HIGH"
	PostureMedium   PostureLevel = "MEDIUM"
	PostureLow      PostureLevel = "LOW"
	PostureClean    PostureLevel = "CLEAN"
)

// ScanSummary aggregates finding counts across one scan.
type ScanSummary struct {
	SeverityCounts map[Severity]int `json:"severity_breakdown"`
	CategoryCounts map[Category]int `json:"category_breakdown"`
	TotalFindings  int              `json:"total_issues"`
	PostureLevel   PostureLevel     `json:"posture_level"`
}
