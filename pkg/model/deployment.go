package model

// DeploymentRecord is an immutable snapshot of one Kubernetes Deployment,
// captured fresh on every request. The three classification values are
// extracted from annotations at the accessor boundary; any of them may be
// empty when the deployment does not follow the game-server convention.
type DeploymentRecord struct {
	Name      string `json:"name"`
	UID       string `json:"uid"`
	Namespace string `json:"namespace"`

	Game      string `json:"game"`
	Instance  string `json:"instance"`
	Component string `json:"component"`

	Replicas            int32 `json:"replicas"`
	ReadyReplicas       int32 `json:"ready_replicas"`
	AvailableReplicas   int32 `json:"available_replicas"`
	UnavailableReplicas int32 `json:"unavailable_replicas"`
	UpdatedReplicas     int32 `json:"updated_replicas"`

	Strategy string `json:"strategy"`
	Paused   bool   `json:"paused"`

	Containers []ContainerSpecInfo `json:"containers"`

	Selector          map[string]string `json:"selector"`
	Labels            map[string]string `json:"labels"`
	Annotations       map[string]string `json:"annotations"`
	CreationTimestamp int64             `json:"creation_timestamp"`

	Conditions []ConditionInfo `json:"conditions"`
}

// Classified reports whether all three classification values are present.
// Unclassified records are excluded from the aggregate tree but still
// visible through the detail view.
func (r *DeploymentRecord) Classified() bool {
	return r.Game != "" && r.Instance != "" && r.Component != ""
}

// ContainerSpecInfo represents one container spec from the pod template.
// Quantities are pre-parsed: CPU in cores, memory in bytes. A malformed or
// missing resource spec parses to zero rather than failing the record.
type ContainerSpecInfo struct {
	Name               string  `json:"name"`
	Image              string  `json:"image"`
	CPURequestCores    float64 `json:"cpu_request_cores"`
	MemoryRequestBytes int64   `json:"memory_request_bytes"`
	CPULimitCores      float64 `json:"cpu_limit_cores"`
	MemoryLimitBytes   int64   `json:"memory_limit_bytes"`
}

// ConditionInfo represents a deployment status condition.
type ConditionInfo struct {
	Type               string `json:"type"`
	Status             string `json:"status"`
	Reason             string `json:"reason"`
	Message            string `json:"message"`
	LastTransitionTime int64  `json:"last_transition_time"`
}
