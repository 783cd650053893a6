package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Default annotation keys for the game-server classification convention.
const (
	DefaultGameAnnotation      = "game-server/game"
	DefaultInstanceAnnotation  = "game-server/instance"
	DefaultComponentAnnotation = "game-server/component"
)

// AnnotationKeys names the three annotation keys that map deployments onto
// the game/instance/component classification dimensions. Key names are
// environment-specific, so they are configurable rather than hard-coded.
type AnnotationKeys struct {
	Game      string
	Instance  string
	Component string
}

// Config holds all dashboard configuration values.
type Config struct {
	ListenPort     int
	Annotations    AnnotationKeys
	Namespaces     []string // allow-list; empty means all namespaces
	RequestTimeout time.Duration

	// KubeAPIURL is the API server used when a request carries a forwarded
	// bearer token (OIDC proxy setups). In-cluster and kubeconfig access
	// resolve their own server address.
	KubeAPIURL       string
	AllowInsecureTLS bool // GAMEDASH_ALLOW_INSECURE_TLS, default: false — skips TLS verify for bearer-token clients
	DebugEndpoints   bool // GAMEDASH_DEBUG_ENDPOINTS, default: false — enables pprof on the main port
}

// Load reads configuration from environment variables and returns a Config
// with defaults applied for any unset values.
func Load() Config {
	return Config{
		ListenPort: parseInt("GAMEDASH_LISTEN_PORT", 8080),
		Annotations: AnnotationKeys{
			Game:      envOrDefault("GAMEDASH_GAME_ANNOTATION", DefaultGameAnnotation),
			Instance:  envOrDefault("GAMEDASH_INSTANCE_ANNOTATION", DefaultInstanceAnnotation),
			Component: envOrDefault("GAMEDASH_COMPONENT_ANNOTATION", DefaultComponentAnnotation),
		},
		Namespaces:       parseStringSlice("GAMEDASH_NAMESPACES"),
		RequestTimeout:   parseDuration("GAMEDASH_REQUEST_TIMEOUT", 5*time.Second),
		KubeAPIURL:       envOrDefault("GAMEDASH_KUBE_API_URL", "https://kubernetes.default.svc"),
		AllowInsecureTLS: parseBool("GAMEDASH_ALLOW_INSECURE_TLS", false),
		DebugEndpoints:   parseBool("GAMEDASH_DEBUG_ENDPOINTS", false),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// parseDuration tries time.ParseDuration first, then falls back to treating
// the value as integer seconds.
func parseDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(v)
	if err == nil {
		return d
	}

	// Fallback: treat as integer seconds
	secs, err := strconv.Atoi(v)
	if err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultVal
}

func parseBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func parseInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func parseStringSlice(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var result []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
