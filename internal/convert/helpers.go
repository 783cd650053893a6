package convert

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
)

// FilterAnnotations returns a filtered copy of the annotations map.
// It skips kubectl.kubernetes.io/last-applied-configuration entirely
// and truncates any value longer than 1024 bytes.
func FilterAnnotations(annotations map[string]string) map[string]string {
	if annotations == nil {
		return nil
	}
	filtered := make(map[string]string, len(annotations))
	for k, v := range annotations {
		if k == "kubectl.kubernetes.io/last-applied-configuration" {
			continue
		}
		if len(v) > 1024 {
			filtered[k] = v[:1024]
			continue
		}
		filtered[k] = v
	}
	return filtered
}

// ParseQuantity converts a K8s resource.Quantity to float64.
// For CPU quantities (e.g. "500m"), returns cores as float64.
// For memory/storage quantities, returns bytes as float64.
func ParseQuantity(q resource.Quantity) float64 {
	// AsApproximateFloat64 handles both milli-values and large values correctly.
	return q.AsApproximateFloat64()
}

// resourceQuantity safely looks up a quantity from a ResourceList.
// Returns a zero Quantity when the list or the entry is missing.
func resourceQuantity(rl corev1.ResourceList, name corev1.ResourceName) resource.Quantity {
	if rl == nil {
		return resource.Quantity{}
	}
	q, ok := rl[name]
	if !ok {
		return resource.Quantity{}
	}
	return q
}

// quantityValue returns the integer value of a quantity from a ResourceList,
// or 0 when missing.
func quantityValue(rl corev1.ResourceList, name corev1.ResourceName) int64 {
	q, ok := rl[name]
	if !ok {
		return 0
	}
	return q.Value()
}
