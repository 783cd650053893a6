package convert

import (
	corev1 "k8s.io/api/core/v1"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"

	"github.com/gym-infra/gameservers-dashboard/pkg/model"
)

// PodToRecord converts a Kubernetes Pod to model.PodRecord.
// Pure function — no side effects, no time.Now(), no external calls.
// Container usage fields are left nil (merged later from the metrics API).
func PodToRecord(pod *corev1.Pod) model.PodRecord {
	rec := model.PodRecord{
		Name:              pod.Name,
		Namespace:         pod.Namespace,
		Phase:             string(pod.Status.Phase),
		Reason:            pod.Status.Reason,
		NodeName:          pod.Spec.NodeName,
		TotalContainers:   len(pod.Spec.Containers),
		CreationTimestamp: pod.CreationTimestamp.UnixMilli(),
	}

	statusMap := make(map[string]corev1.ContainerStatus, len(pod.Status.ContainerStatuses))
	for _, s := range pod.Status.ContainerStatuses {
		statusMap[s.Name] = s
		if s.Ready {
			rec.ReadyContainers++
		}
		rec.Restarts += s.RestartCount
	}

	if len(pod.Spec.Containers) > 0 {
		rec.Containers = make([]model.ContainerUsageInfo, len(pod.Spec.Containers))
		for i, c := range pod.Spec.Containers {
			rec.Containers[i] = model.ContainerUsageInfo{
				Name:               c.Name,
				CPURequestCores:    ParseQuantity(resourceQuantity(c.Resources.Requests, corev1.ResourceCPU)),
				CPULimitCores:      ParseQuantity(resourceQuantity(c.Resources.Limits, corev1.ResourceCPU)),
				MemoryRequestBytes: quantityValue(c.Resources.Requests, corev1.ResourceMemory),
				MemoryLimitBytes:   quantityValue(c.Resources.Limits, corev1.ResourceMemory),
			}
		}
	}

	return rec
}

// MergePodUsage fills in container usage on a PodRecord from a metrics API
// sample, matching containers by name. Containers without a sample keep nil
// usage. The record is modified in place.
func MergePodUsage(rec *model.PodRecord, pm *metricsv1beta1.PodMetrics) {
	if pm == nil {
		return
	}
	usage := make(map[string]corev1.ResourceList, len(pm.Containers))
	for _, c := range pm.Containers {
		usage[c.Name] = c.Usage
	}
	for i := range rec.Containers {
		rl, ok := usage[rec.Containers[i].Name]
		if !ok {
			continue
		}
		cpu := ParseQuantity(resourceQuantity(rl, corev1.ResourceCPU))
		mem := quantityValue(rl, corev1.ResourceMemory)
		rec.Containers[i].CPUUsageCores = &cpu
		rec.Containers[i].MemoryUsageBytes = &mem
	}
}
