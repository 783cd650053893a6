package config

import (
	"os"
	"testing"
	"time"
)

// helper to clear all GAMEDASH_ env vars before each test
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"GAMEDASH_LISTEN_PORT",
		"GAMEDASH_GAME_ANNOTATION",
		"GAMEDASH_INSTANCE_ANNOTATION",
		"GAMEDASH_COMPONENT_ANNOTATION",
		"GAMEDASH_NAMESPACES",
		"GAMEDASH_REQUEST_TIMEOUT",
		"GAMEDASH_KUBE_API_URL",
		"GAMEDASH_ALLOW_INSECURE_TLS",
		"GAMEDASH_DEBUG_ENDPOINTS",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.ListenPort != 8080 {
		t.Errorf("ListenPort = %d, want 8080", cfg.ListenPort)
	}
	if cfg.Annotations.Game != "game-server/game" {
		t.Errorf("Annotations.Game = %q, want %q", cfg.Annotations.Game, "game-server/game")
	}
	if cfg.Annotations.Instance != "game-server/instance" {
		t.Errorf("Annotations.Instance = %q, want %q", cfg.Annotations.Instance, "game-server/instance")
	}
	if cfg.Annotations.Component != "game-server/component" {
		t.Errorf("Annotations.Component = %q, want %q", cfg.Annotations.Component, "game-server/component")
	}
	if cfg.Namespaces != nil {
		t.Errorf("Namespaces = %v, want nil (all namespaces)", cfg.Namespaces)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if cfg.KubeAPIURL != "https://kubernetes.default.svc" {
		t.Errorf("KubeAPIURL = %q, want default in-cluster service URL", cfg.KubeAPIURL)
	}
	if cfg.AllowInsecureTLS {
		t.Error("AllowInsecureTLS should default to false")
	}
	if cfg.DebugEndpoints {
		t.Error("DebugEndpoints should default to false")
	}
}

func TestLoad_AllEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("GAMEDASH_LISTEN_PORT", "9090")
	t.Setenv("GAMEDASH_GAME_ANNOTATION", "acme.io/game")
	t.Setenv("GAMEDASH_INSTANCE_ANNOTATION", "acme.io/instance")
	t.Setenv("GAMEDASH_COMPONENT_ANNOTATION", "acme.io/component")
	t.Setenv("GAMEDASH_NAMESPACES", "games, staging ,")
	t.Setenv("GAMEDASH_REQUEST_TIMEOUT", "10s")
	t.Setenv("GAMEDASH_KUBE_API_URL", "https://k8s.example.com:6443")
	t.Setenv("GAMEDASH_ALLOW_INSECURE_TLS", "true")
	t.Setenv("GAMEDASH_DEBUG_ENDPOINTS", "true")

	cfg := Load()

	if cfg.ListenPort != 9090 {
		t.Errorf("ListenPort = %d, want 9090", cfg.ListenPort)
	}
	if cfg.Annotations.Game != "acme.io/game" {
		t.Errorf("Annotations.Game = %q, want %q", cfg.Annotations.Game, "acme.io/game")
	}
	if len(cfg.Namespaces) != 2 || cfg.Namespaces[0] != "games" || cfg.Namespaces[1] != "staging" {
		t.Errorf("Namespaces = %v, want [games staging]", cfg.Namespaces)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.KubeAPIURL != "https://k8s.example.com:6443" {
		t.Errorf("KubeAPIURL = %q, want override", cfg.KubeAPIURL)
	}
	if !cfg.AllowInsecureTLS {
		t.Error("AllowInsecureTLS should be true")
	}
	if !cfg.DebugEndpoints {
		t.Error("DebugEndpoints should be true")
	}
}

func TestLoad_DurationAsSeconds(t *testing.T) {
	clearEnv(t)
	t.Setenv("GAMEDASH_REQUEST_TIMEOUT", "8")

	cfg := Load()
	if cfg.RequestTimeout != 8*time.Second {
		t.Errorf("RequestTimeout = %v, want 8s (integer-seconds fallback)", cfg.RequestTimeout)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GAMEDASH_LISTEN_PORT", "not-a-number")
	t.Setenv("GAMEDASH_REQUEST_TIMEOUT", "soon")
	t.Setenv("GAMEDASH_ALLOW_INSECURE_TLS", "yep")

	cfg := Load()
	if cfg.ListenPort != 8080 {
		t.Errorf("ListenPort = %d, want default 8080", cfg.ListenPort)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want default 5s", cfg.RequestTimeout)
	}
	if cfg.AllowInsecureTLS {
		t.Error("AllowInsecureTLS should fall back to false")
	}
}

func TestValidate_Valid(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no error for default config, got: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := Load()
	cfg.ListenPort = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for ListenPort 0, got nil")
	}

	cfg.ListenPort = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for ListenPort 70000, got nil")
	}
}

func TestValidate_BadTimeout(t *testing.T) {
	cfg := Load()
	cfg.RequestTimeout = 100 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for RequestTimeout < 1s, got nil")
	}
}

func TestValidate_EmptyAnnotationKey(t *testing.T) {
	for _, tc := range []struct {
		name  string
		mod   func(*Config)
	}{
		{"game", func(c *Config) { c.Annotations.Game = "" }},
		{"instance", func(c *Config) { c.Annotations.Instance = "" }},
		{"component", func(c *Config) { c.Annotations.Component = "" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mod(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected error for empty %s annotation key, got nil", tc.name)
			}
		})
	}
}

func TestValidate_InsecureKubeAPIURL(t *testing.T) {
	cfg := Load()
	cfg.KubeAPIURL = "http://k8s.example.com"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for http:// KubeAPIURL without AllowInsecureTLS, got nil")
	}

	cfg.AllowInsecureTLS = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected http:// KubeAPIURL to pass with AllowInsecureTLS, got: %v", err)
	}
}
