package checks_test

import (
	"kubescan/internal/models"
)

func boolPtr(b bool) *bool    { return &b }
func int64Ptr(i int64) *int64 { return &i }

// secureContainer returns a container that satisfies every pod security
// and resource limit rule, so tests can flip one field at a time.
func secureContainer(name string) models.ContainerRecord {
	return models.ContainerRecord{
		Name:                     name,
		RunAsUser:                int64Ptr(1000),
		RunAsNonRoot:             boolPtr(true),
		AllowPrivilegeEscalation: boolPtr(false),
		ReadOnlyRootFilesystem:   boolPtr(true),
		CPULimit:                 "500m",
		MemoryLimit:              "512Mi",
		CPURequest:               "250m",
		MemoryRequest:            "256Mi",
		SecurityContextPresent:   true,
	}
}

// podSnapshot builds a one-namespace snapshot holding the given pods.
func podSnapshot(ns string, pods ...models.PodRecord) *models.ClusterSnapshot {
	b := models.NewSnapshotBuilder().AddNamespace(ns)
	for _, p := range pods {
		p.Namespace = ns
		b.AddPod(p)
	}
	return b.Build()
}
