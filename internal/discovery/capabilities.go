// Package discovery probes the cluster once at startup for optional
// features the dashboard can use, currently just metrics-server.
package discovery

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/kubernetes"
)

const (
	apiGroupMetrics    = "metrics.k8s.io"
	apiVersionMetrics  = "v1beta1"
	resourcePodMetrics = "pods"
)

// Capabilities describes optional cluster features detected at startup.
// Results are computed once and cached for the process lifetime.
type Capabilities struct {
	MetricsServer bool // metrics.k8s.io pod metrics are present and readable
}

// Detect probes the cluster for optional capabilities. A capability is
// reported only when the API group exists, the resource is served, and
// RBAC allows reading it. Intended to run once at startup.
func Detect(ctx context.Context, client kubernetes.Interface, discoveryClient discovery.DiscoveryInterface) (*Capabilities, error) {
	caps := &Capabilities{}

	available, err := checkResource(ctx, client, discoveryClient, apiGroupMetrics, apiVersionMetrics, resourcePodMetrics)
	if err != nil {
		return nil, err
	}
	caps.MetricsServer = available

	return caps, nil
}

// checkResource performs a 3-phase conditional check for a resource:
//
//  1. API group exists — via ServerGroups discovery
//  2. Resource exists — via ServerResourcesForGroupVersion
//  3. RBAC allows get+list — via SelfSubjectAccessReview
//
// If any phase reports the resource unavailable, it returns false with no
// error. Errors are only returned for unexpected failures.
func checkResource(ctx context.Context, client kubernetes.Interface, discoveryClient discovery.DiscoveryInterface, group, version, resource string) (bool, error) {
	groupExists, err := hasAPIGroup(discoveryClient, group)
	if err != nil {
		return false, fmt.Errorf("discovery: phase 1 check API group %q: %w", group, err)
	}
	if !groupExists {
		return false, nil
	}

	resourceExists, err := hasResource(discoveryClient, group, version, resource)
	if err != nil {
		return false, fmt.Errorf("discovery: phase 2 check resource %q in %s/%s: %w", resource, group, version, err)
	}
	if !resourceExists {
		return false, nil
	}

	canAccess, err := canRead(ctx, client, group, resource)
	if err != nil {
		return false, fmt.Errorf("discovery: phase 3 RBAC check for %q: %w", resource, err)
	}

	return canAccess, nil
}

func hasAPIGroup(discoveryClient discovery.DiscoveryInterface, group string) (bool, error) {
	groups, err := discoveryClient.ServerGroups()
	if err != nil {
		return false, fmt.Errorf("list server groups: %w", err)
	}

	for _, g := range groups.Groups {
		if g.Name == group {
			return true, nil
		}
	}
	return false, nil
}

func hasResource(discoveryClient discovery.DiscoveryInterface, group, version, resource string) (bool, error) {
	groupVersion := version
	if group != "" {
		groupVersion = group + "/" + version
	}

	resources, err := discoveryClient.ServerResourcesForGroupVersion(groupVersion)
	if err != nil {
		// Group/version not served means the resource is missing, not an error.
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	for _, r := range resources.APIResources {
		if r.Name == resource {
			return true, nil
		}
	}
	return false, nil
}
