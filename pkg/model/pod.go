package model

// PodRecord is a snapshot of one pod backing a deployment, used by the
// detail view only.
type PodRecord struct {
	Name              string `json:"name"`
	Namespace         string `json:"namespace"`
	Phase             string `json:"phase"`
	Reason            string `json:"reason"`
	NodeName          string `json:"node_name"`
	ReadyContainers   int    `json:"ready_containers"`
	TotalContainers   int    `json:"total_containers"`
	Restarts          int32  `json:"restarts"`
	CreationTimestamp int64  `json:"creation_timestamp"`

	Containers []ContainerUsageInfo `json:"containers"`
}

// ContainerUsageInfo pairs a container's requests/limits with its live
// usage from the metrics API. Usage pointers are nil when metrics-server
// is unavailable or has no sample for the container yet.
type ContainerUsageInfo struct {
	Name               string   `json:"name"`
	CPURequestCores    float64  `json:"cpu_request_cores"`
	CPULimitCores      float64  `json:"cpu_limit_cores"`
	MemoryRequestBytes int64    `json:"memory_request_bytes"`
	MemoryLimitBytes   int64    `json:"memory_limit_bytes"`
	CPUUsageCores      *float64 `json:"cpu_usage_cores,omitempty"`
	MemoryUsageBytes   *int64   `json:"memory_usage_bytes,omitempty"`
}
