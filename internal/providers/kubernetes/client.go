// Package kubernetes is the data provider for the scan engine: it loads a
// clientset from kubeconfig and collects cluster resources into the
// frozen ClusterSnapshot the checkers consume.
package kubernetes

import k8sclient "k8s.io/client-go/kubernetes"

// ClusterInfo identifies the cluster a scan connects to.
type ClusterInfo struct {
	// ContextName is the kubeconfig context name used to connect.
	ContextName string

	// Server is the API server URL resolved from the kubeconfig.
	Server string
}

// ClientProvider creates clientsets for named kubeconfig contexts.
// It abstracts kubeconfig loading so callers and tests can inject any
// clientset without touching the filesystem.
type ClientProvider interface {
	// ClientsetForContext returns a clientset and the resolved ClusterInfo
	// for the given kubeconfig context. Pass an empty string to use the
	// current context.
	ClientsetForContext(contextName string) (k8sclient.Interface, ClusterInfo, error)
}

// DefaultClientProvider loads kubeconfig from $KUBECONFIG or
// ~/.kube/config and builds a real clientset.
type DefaultClientProvider struct{}

// NewDefaultClientProvider returns a provider backed by the system kubeconfig.
func NewDefaultClientProvider() *DefaultClientProvider {
	return &DefaultClientProvider{}
}

// ClientsetForContext implements ClientProvider.
func (p *DefaultClientProvider) ClientsetForContext(contextName string) (k8sclient.Interface, ClusterInfo, error) {
	return LoadClientset(resolveKubeconfigPath(), contextName)
}
