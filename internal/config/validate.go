package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that the Config contains valid values.
// Returns an error describing the first invalid field found.
func (c Config) Validate() error {
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return fmt.Errorf("config: ListenPort must be 1-65535, got %d", c.ListenPort)
	}

	if c.RequestTimeout < time.Second {
		return fmt.Errorf("config: RequestTimeout must be >= 1s, got %v", c.RequestTimeout)
	}

	if c.Annotations.Game == "" {
		return fmt.Errorf("config: GAMEDASH_GAME_ANNOTATION must not be empty")
	}
	if c.Annotations.Instance == "" {
		return fmt.Errorf("config: GAMEDASH_INSTANCE_ANNOTATION must not be empty")
	}
	if c.Annotations.Component == "" {
		return fmt.Errorf("config: GAMEDASH_COMPONENT_ANNOTATION must not be empty")
	}

	if c.KubeAPIURL == "" {
		return fmt.Errorf("config: GAMEDASH_KUBE_API_URL is required")
	}
	if !c.AllowInsecureTLS && !strings.HasPrefix(c.KubeAPIURL, "https://") {
		return fmt.Errorf("config: GAMEDASH_KUBE_API_URL must use https:// (got %q); set GAMEDASH_ALLOW_INSECURE_TLS=true to override", c.KubeAPIURL)
	}

	return nil
}
