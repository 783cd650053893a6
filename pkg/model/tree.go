package model

// GameNode is the root of the aggregate tree: all instances of one game.
// Counts are derived from children and hold for every aggregation:
// ComponentCount and FailingDeployments equal the sums over Instances.
type GameNode struct {
	Name               string         `json:"name"`
	InstanceCount      int            `json:"instance_count"`
	ComponentCount     int            `json:"component_count"`
	FailingDeployments int            `json:"failing_deployments"`
	Resources          ResourceTotals `json:"resources"`
	Instances          []InstanceNode `json:"instances"`
}

// InstanceNode groups the components of one (game, instance) pair.
type InstanceNode struct {
	Name              string          `json:"name"`
	ComponentCount    int             `json:"component_count"`
	FailingComponents int             `json:"failing_components"`
	Resources         ResourceTotals  `json:"resources"`
	Components        []ComponentNode `json:"components"`
}

// ComponentNode wraps one deployment with its derived health.
//
// Healthy is true when the deployment is intentionally scaled to zero, or
// when all desired replicas are ready and no condition indicates failure
// (Available=False or ReplicaFailure=True).
type ComponentNode struct {
	Component  string           `json:"component"`
	Healthy    bool             `json:"healthy"`
	Deployment DeploymentRecord `json:"deployment"`
}

// ResourceTotals holds summed requests/limits across a subtree.
type ResourceTotals struct {
	CPURequestCores    float64 `json:"cpu_request_cores"`
	CPULimitCores      float64 `json:"cpu_limit_cores"`
	MemoryRequestBytes int64   `json:"memory_request_bytes"`
	MemoryLimitBytes   int64   `json:"memory_limit_bytes"`
}

// Add accumulates another set of totals into t.
func (t *ResourceTotals) Add(other ResourceTotals) {
	t.CPURequestCores += other.CPURequestCores
	t.CPULimitCores += other.CPULimitCores
	t.MemoryRequestBytes += other.MemoryRequestBytes
	t.MemoryLimitBytes += other.MemoryLimitBytes
}
