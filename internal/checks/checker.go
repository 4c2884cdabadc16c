package checks

import (
	"fmt"

	"kubescan/internal/models"
)

// Checker evaluates one security policy area against a frozen
// ClusterSnapshot. Checkers must be stateless and safe to call
// concurrently. They must never mutate the snapshot, make network calls,
// or read external state; the snapshot is their sole input.
type Checker interface {
	// Name returns a short human-readable checker name.
	Name() string

	// Category returns the finding category this checker produces.
	Category() models.Category

	// Evaluate inspects the snapshot for the given namespace set and
	// returns zero or more findings in a deterministic order. A non-nil
	// error means the checker could not complete; partial findings from a
	// failed evaluation are discarded by the pipeline.
	Evaluate(snap *models.ClusterSnapshot, namespaces []string) ([]models.Finding, error)
}

// Registry is a simple, ordered, in-memory checker registry.
// Checkers run in registration order. Register panics on duplicate names
// to catch wiring mistakes at startup.
type Registry struct {
	checkers []Checker
	index    map[string]struct{}
}

// NewRegistry returns an empty registry ready for checker registration.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]struct{})}
}

// Register adds c to the registry. Panics if the same name is registered twice.
func (r *Registry) Register(c Checker) {
	if _, exists := r.index[c.Name()]; exists {
		panic(fmt.Sprintf("duplicate checker name: %q", c.Name()))
	}
	r.checkers = append(r.checkers, c)
	r.index[c.Name()] = struct{}{}
}

// All returns the registered checkers in registration order.
func (r *Registry) All() []Checker {
	return r.checkers
}

// DefaultRegistry returns a registry with the four built-in checkers in
// their canonical order: pod security, RBAC, network policy, resource
// limits.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(PodSecurityChecker{})
	r.Register(RBACChecker{})
	r.Register(NetworkPolicyChecker{})
	r.Register(ResourceLimitChecker{})
	return r
}
