// Package web is the dashboard's presentation layer: HTML pages for
// operators, a JSON API for tooling, and the operational endpoints
// (healthz, readyz, metrics, optional pprof) on one port.
package web

import (
	"context"

	"github.com/gym-infra/gameservers-dashboard/pkg/model"
)

// Accessor is the cluster surface the handlers need. *cluster.Client
// satisfies it.
type Accessor interface {
	ListDeployments(ctx context.Context) ([]model.DeploymentRecord, error)
	GetDeployment(ctx context.Context, namespace, name string) (model.DeploymentRecord, error)
	PodsForDeployment(ctx context.Context, rec model.DeploymentRecord) ([]model.PodRecord, error)
	RestartDeployment(ctx context.Context, namespace, name string) error
	ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) error
	PodLogs(ctx context.Context, namespace, pod, container string, tailLines int64) (string, error)
}

// AccessorFactory yields the accessor for one request. The token is the
// forwarded bearer token, empty for the ambient identity.
type AccessorFactory func(token string) (Accessor, error)

// ReadinessChecker reports whether the dashboard is ready to serve traffic.
type ReadinessChecker interface {
	IsReady() bool
}
