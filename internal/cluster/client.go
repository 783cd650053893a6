// Package cluster is the dashboard's accessor to the Kubernetes API:
// fresh deployment/pod snapshots per request, plus the two write actions
// (rolling restart, scale). Nothing is cached between requests.
package cluster

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
	metricsv1beta1client "k8s.io/metrics/pkg/client/clientset/versioned/typed/metrics/v1beta1"

	"github.com/gym-infra/gameservers-dashboard/internal/config"
	"github.com/gym-infra/gameservers-dashboard/internal/convert"
	"github.com/gym-infra/gameservers-dashboard/internal/observability"
	"github.com/gym-infra/gameservers-dashboard/pkg/model"
)

// Annotation patched onto the pod template to trigger a rolling restart,
// same key kubectl uses for `rollout restart`.
const restartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"

// PodMetricsAPI abstracts the metrics-server API for testability.
type PodMetricsAPI interface {
	ListPodMetrics(ctx context.Context, namespace, selector string) ([]metricsv1beta1.PodMetrics, error)
}

// podMetricsClient wraps the real metrics client to implement PodMetricsAPI.
type podMetricsClient struct {
	client metricsv1beta1client.MetricsV1beta1Interface
}

func (c *podMetricsClient) ListPodMetrics(ctx context.Context, namespace, selector string) ([]metricsv1beta1.PodMetrics, error) {
	list, err := c.client.PodMetricses(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Client reads deployment/pod snapshots and performs the restart and scale
// actions. A Client is cheap and request-scoped when built from a forwarded
// bearer token; it holds no mutable state.
type Client struct {
	kube       kubernetes.Interface
	podMetrics PodMetricsAPI          // nil when metrics-server is absent
	obs        *observability.Metrics // nil disables call instrumentation
	keys       config.AnnotationKeys
	namespaces []string
	now        func() time.Time
}

// NewClient creates a Client over the given clientset.
// podMetrics may be nil; the detail view then shows no live usage.
// obs may be nil; cluster calls then go unrecorded.
func NewClient(kube kubernetes.Interface, podMetrics PodMetricsAPI, obs *observability.Metrics, keys config.AnnotationKeys, namespaces []string) *Client {
	return &Client{
		kube:       kube,
		podMetrics: podMetrics,
		obs:        obs,
		keys:       keys,
		namespaces: namespaces,
		now:        time.Now,
	}
}

// NewClientWithMetrics creates a Client using a real metrics-server client.
func NewClientWithMetrics(kube kubernetes.Interface, metrics metricsv1beta1client.MetricsV1beta1Interface, obs *observability.Metrics, keys config.AnnotationKeys, namespaces []string) *Client {
	return NewClient(kube, &podMetricsClient{client: metrics}, obs, keys, namespaces)
}

// observe records one cluster call's duration and outcome.
func (c *Client) observe(op string, start time.Time, err error) {
	if c.obs == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.obs.ClusterCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	c.obs.ClusterCallsTotal.WithLabelValues(op, status).Inc()
}

// ListDeployments returns a fresh snapshot of all deployments in the
// configured namespaces (all namespaces when the allow-list is empty).
// Every deployment is returned, classified or not; filtering is the
// aggregation engine's concern.
func (c *Client) ListDeployments(ctx context.Context) (_ []model.DeploymentRecord, err error) {
	start := time.Now()
	defer func() { c.observe("list deployments", start, err) }()

	namespaces := c.namespaces
	if len(namespaces) == 0 {
		namespaces = []string{metav1.NamespaceAll}
	}

	var records []model.DeploymentRecord
	for _, ns := range namespaces {
		list, err := c.kube.AppsV1().Deployments(ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, classify("list deployments", err)
		}
		for i := range list.Items {
			records = append(records, convert.DeploymentToRecord(&list.Items[i], c.keys))
		}
	}
	return records, nil
}

// GetDeployment returns the record for a single deployment.
func (c *Client) GetDeployment(ctx context.Context, namespace, name string) (_ model.DeploymentRecord, err error) {
	start := time.Now()
	defer func() { c.observe("get deployment", start, err) }()

	dep, err := c.kube.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return model.DeploymentRecord{}, classify("get deployment", err)
	}
	return convert.DeploymentToRecord(dep, c.keys), nil
}

// ListPods returns the pods matching a label selector in one namespace,
// with live usage merged in when the metrics API is available. A metrics
// failure degrades to nil usage rather than failing the listing.
func (c *Client) ListPods(ctx context.Context, namespace, selector string) (_ []model.PodRecord, err error) {
	start := time.Now()
	defer func() { c.observe("list pods", start, err) }()

	list, err := c.kube.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, classify("list pods", err)
	}

	records := make([]model.PodRecord, 0, len(list.Items))
	for i := range list.Items {
		records = append(records, convert.PodToRecord(&list.Items[i]))
	}

	if c.podMetrics != nil && len(records) > 0 {
		samples, err := c.podMetrics.ListPodMetrics(ctx, namespace, selector)
		if err == nil {
			byName := make(map[string]*metricsv1beta1.PodMetrics, len(samples))
			for i := range samples {
				byName[samples[i].Name] = &samples[i]
			}
			for i := range records {
				convert.MergePodUsage(&records[i], byName[records[i].Name])
			}
		}
	}

	return records, nil
}

// PodsForDeployment lists the pods behind one deployment record using its
// label selector. Deployments without a selector yield no pods.
func (c *Client) PodsForDeployment(ctx context.Context, rec model.DeploymentRecord) ([]model.PodRecord, error) {
	if len(rec.Selector) == 0 {
		return nil, nil
	}
	selector := metav1.FormatLabelSelector(&metav1.LabelSelector{MatchLabels: rec.Selector})
	return c.ListPods(ctx, rec.Namespace, selector)
}

// RestartDeployment triggers a rolling restart by patching the pod template
// with a fresh restartedAt annotation. Best effort: a failure is classified
// and returned, never retried.
func (c *Client) RestartDeployment(ctx context.Context, namespace, name string) (err error) {
	start := time.Now()
	defer func() { c.observe("restart deployment", start, err) }()

	patch := fmt.Sprintf(
		`{"spec":{"template":{"metadata":{"annotations":{%q:%q}}}}}`,
		restartedAtAnnotation, c.now().Format(time.RFC3339),
	)
	_, perr := c.kube.AppsV1().Deployments(namespace).Patch(
		ctx, name, types.StrategicMergePatchType, []byte(patch), metav1.PatchOptions{},
	)
	err = classify("restart deployment", perr)
	return err
}

// ScaleDeployment sets the desired replica count through the scale
// subresource. Negative values clamp to zero.
func (c *Client) ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) (err error) {
	start := time.Now()
	defer func() { c.observe("scale deployment", start, err) }()

	if replicas < 0 {
		replicas = 0
	}
	scale, serr := c.kube.AppsV1().Deployments(namespace).GetScale(ctx, name, metav1.GetOptions{})
	if serr != nil {
		err = classify("scale deployment", serr)
		return err
	}
	scale.Spec.Replicas = replicas
	_, serr = c.kube.AppsV1().Deployments(namespace).UpdateScale(ctx, name, scale, metav1.UpdateOptions{})
	err = classify("scale deployment", serr)
	return err
}

// PodLogs fetches the tail of one container's log as plain text. An empty
// container name means the pod's first container (API server default).
func (c *Client) PodLogs(ctx context.Context, namespace, pod, container string, tailLines int64) (_ string, err error) {
	start := time.Now()
	defer func() { c.observe("get pod logs", start, err) }()

	opts := &corev1.PodLogOptions{}
	if container != "" {
		opts.Container = container
	}
	if tailLines > 0 {
		opts.TailLines = &tailLines
	}

	data, lerr := c.kube.CoreV1().Pods(namespace).GetLogs(pod, opts).DoRaw(ctx)
	if lerr != nil {
		return "", classify("get pod logs", lerr)
	}
	return string(data), nil
}
