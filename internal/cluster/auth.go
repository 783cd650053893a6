package cluster

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/gym-infra/gameservers-dashboard/internal/config"
)

// Headers checked for a forwarded bearer token, in priority order.
// OIDC proxies differ in which one they set.
var bearerHeaders = []string{
	"Authorization",
	"X-Forwarded-Authorization",
	"X-Auth-Token",
}

// BearerFromRequest extracts a forwarded bearer token from the request
// headers, or "" when none is present.
func BearerFromRequest(r *http.Request) string {
	for _, h := range bearerHeaders {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		if strings.HasPrefix(v, "Bearer ") {
			return strings.TrimPrefix(v, "Bearer ")
		}
		if h == "X-Auth-Token" {
			return v
		}
	}
	return ""
}

// BuildKubeConfig creates the ambient Kubernetes REST config.
// It tries in-cluster config first, then falls back to kubeconfig file
// (from $KUBECONFIG or the default ~/.kube/config).
func BuildKubeConfig() (*rest.Config, error) {
	cfg, err := rest.InClusterConfig()
	if err == nil {
		slog.Info("using in-cluster kubernetes config")
		return cfg, nil
	}

	kubeconfig := os.Getenv("KUBECONFIG")
	if kubeconfig == "" {
		kubeconfig = clientcmd.RecommendedHomeFile
	}

	cfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("cluster: no usable kubernetes config: %w", err)
	}
	slog.Info("using kubeconfig file", "path", kubeconfig)
	return cfg, nil
}

// ConfigForToken builds a REST config that authenticates with a bearer
// token forwarded by an auth proxy, pointed at the configured API server.
func ConfigForToken(cfg config.Config, token string) *rest.Config {
	return &rest.Config{
		Host:        cfg.KubeAPIURL,
		BearerToken: token,
		TLSClientConfig: rest.TLSClientConfig{
			Insecure: cfg.AllowInsecureTLS,
		},
	}
}
