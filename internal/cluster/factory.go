package cluster

import (
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/gym-infra/gameservers-dashboard/internal/config"
	"github.com/gym-infra/gameservers-dashboard/internal/observability"
)

// Factory hands out per-request Clients. Requests carrying a forwarded
// bearer token get a client acting as that caller; everything else uses
// the ambient (in-cluster or kubeconfig) identity, built once.
type Factory struct {
	cfg            config.Config
	obs            *observability.Metrics
	ambient        *Client
	metricsEnabled bool
}

// NewFactory builds the ambient client from the given REST config.
// metricsEnabled should reflect the startup metrics-server probe; when
// false, no client ever queries the metrics API.
func NewFactory(cfg config.Config, restCfg *rest.Config, metricsEnabled bool, obs *observability.Metrics) (*Factory, error) {
	kube, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, classify("build kubernetes client", err)
	}

	var ambient *Client
	if metricsEnabled {
		metrics, err := metricsclientset.NewForConfig(restCfg)
		if err != nil {
			return nil, classify("build metrics client", err)
		}
		ambient = NewClientWithMetrics(kube, metrics.MetricsV1beta1(), obs, cfg.Annotations, cfg.Namespaces)
	} else {
		ambient = NewClient(kube, nil, obs, cfg.Annotations, cfg.Namespaces)
	}

	return &Factory{cfg: cfg, obs: obs, ambient: ambient, metricsEnabled: metricsEnabled}, nil
}

// ClientFor returns the client for one request. An empty token means the
// ambient identity.
func (f *Factory) ClientFor(token string) (*Client, error) {
	if token == "" {
		return f.ambient, nil
	}

	restCfg := ConfigForToken(f.cfg, token)
	kube, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, &ClusterError{Code: ErrAuthFailed, Operation: "build token client", Err: err}
	}

	if f.metricsEnabled {
		metrics, err := metricsclientset.NewForConfig(restCfg)
		if err != nil {
			return nil, &ClusterError{Code: ErrAuthFailed, Operation: "build token client", Err: err}
		}
		return NewClientWithMetrics(kube, metrics.MetricsV1beta1(), f.obs, f.cfg.Annotations, f.cfg.Namespaces), nil
	}
	return NewClient(kube, nil, f.obs, f.cfg.Annotations, f.cfg.Namespaces), nil
}
