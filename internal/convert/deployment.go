package convert

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/gym-infra/gameservers-dashboard/internal/config"
	"github.com/gym-infra/gameservers-dashboard/pkg/model"
)

// DeploymentToRecord converts a Kubernetes Deployment to model.DeploymentRecord.
// Pure function — no side effects.
// The classification values are read from the configured annotation keys;
// a missing annotation leaves the corresponding field empty rather than
// failing the record.
func DeploymentToRecord(dep *appsv1.Deployment, keys config.AnnotationKeys) model.DeploymentRecord {
	replicas := int32(1)
	if dep.Spec.Replicas != nil {
		replicas = *dep.Spec.Replicas
	}

	rec := model.DeploymentRecord{
		Name:      dep.Name,
		UID:       string(dep.UID),
		Namespace: dep.Namespace,

		Game:      dep.Annotations[keys.Game],
		Instance:  dep.Annotations[keys.Instance],
		Component: dep.Annotations[keys.Component],

		Replicas:            replicas,
		ReadyReplicas:       dep.Status.ReadyReplicas,
		AvailableReplicas:   dep.Status.AvailableReplicas,
		UnavailableReplicas: dep.Status.UnavailableReplicas,
		UpdatedReplicas:     dep.Status.UpdatedReplicas,

		Strategy: string(dep.Spec.Strategy.Type),
		Paused:   dep.Spec.Paused,

		Containers: extractContainerSpecs(dep.Spec.Template.Spec.Containers),

		Labels:            dep.Labels,
		Annotations:       FilterAnnotations(dep.Annotations),
		CreationTimestamp: dep.CreationTimestamp.UnixMilli(),
	}

	if dep.Spec.Selector != nil {
		rec.Selector = dep.Spec.Selector.MatchLabels
	}

	rec.Conditions = convertDeploymentConditions(dep.Status.Conditions)

	return rec
}

// extractContainerSpecs converts a slice of K8s Containers to model.ContainerSpecInfo slice.
// Extracts resource requests/limits for each container.
func extractContainerSpecs(containers []corev1.Container) []model.ContainerSpecInfo {
	if len(containers) == 0 {
		return nil
	}
	out := make([]model.ContainerSpecInfo, len(containers))
	for i, c := range containers {
		out[i] = model.ContainerSpecInfo{
			Name:               c.Name,
			Image:              c.Image,
			CPURequestCores:    ParseQuantity(resourceQuantity(c.Resources.Requests, corev1.ResourceCPU)),
			MemoryRequestBytes: quantityValue(c.Resources.Requests, corev1.ResourceMemory),
			CPULimitCores:      ParseQuantity(resourceQuantity(c.Resources.Limits, corev1.ResourceCPU)),
			MemoryLimitBytes:   quantityValue(c.Resources.Limits, corev1.ResourceMemory),
		}
	}
	return out
}

// convertDeploymentConditions converts appsv1.DeploymentCondition to model.ConditionInfo.
func convertDeploymentConditions(conditions []appsv1.DeploymentCondition) []model.ConditionInfo {
	if len(conditions) == 0 {
		return nil
	}
	out := make([]model.ConditionInfo, len(conditions))
	for i, c := range conditions {
		out[i] = model.ConditionInfo{
			Type:               string(c.Type),
			Status:             string(c.Status),
			Reason:             c.Reason,
			Message:            c.Message,
			LastTransitionTime: c.LastTransitionTime.UnixMilli(),
		}
	}
	return out
}
