package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	_ "github.com/KimMachineGun/automemlimit"
	_ "go.uber.org/automaxprocs"

	"k8s.io/client-go/kubernetes"

	"github.com/gym-infra/gameservers-dashboard/internal/cluster"
	"github.com/gym-infra/gameservers-dashboard/internal/config"
	"github.com/gym-infra/gameservers-dashboard/internal/discovery"
	"github.com/gym-infra/gameservers-dashboard/internal/observability"
	"github.com/gym-infra/gameservers-dashboard/internal/web"
)

// readyFlag flips once startup completes; readyz reports it. The handler
// goroutines read it while main is still writing, so it must be atomic.
type readyFlag struct{ ready atomic.Bool }

func (r *readyFlag) IsReady() bool { return r.ready.Load() }

func (r *readyFlag) Set(v bool) { r.ready.Store(v) }

func main() {
	// 1. Load and validate config.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// 2. Create context with signal handling.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		slog.Info("shutdown signal received", "signal", sig)
		cancel()
	}()

	slog.Info("gameservers-dashboard starting",
		"listen_port", cfg.ListenPort,
		"namespaces", cfg.Namespaces,
		"request_timeout", cfg.RequestTimeout,
	)

	// 3. Build the ambient Kubernetes client.
	restCfg, err := cluster.BuildKubeConfig()
	if err != nil {
		slog.Error("failed to build kubernetes config", "error", err)
		os.Exit(1)
	}
	kubeClient, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		slog.Error("failed to build kubernetes client", "error", err)
		os.Exit(1)
	}

	// 4. Detect cluster capabilities.
	caps, err := discovery.Detect(ctx, kubeClient, kubeClient.Discovery())
	if err != nil {
		slog.Error("failed to detect cluster capabilities", "error", err)
		os.Exit(1)
	}
	slog.Info("cluster capabilities detected", "metrics_server", caps.MetricsServer)

	// 5. Build the per-request accessor factory.
	metrics := observability.NewMetrics()
	factory, err := cluster.NewFactory(cfg, restCfg, caps.MetricsServer, metrics)
	if err != nil {
		slog.Error("failed to build cluster accessor", "error", err)
		os.Exit(1)
	}
	accessors := func(token string) (web.Accessor, error) {
		return factory.ClientFor(token)
	}

	// 6. Start the web server.
	ready := &readyFlag{}
	srv, err := web.NewServer(cfg, slog.Default(), metrics, accessors, ready)
	if err != nil {
		slog.Error("failed to build web server", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(); err != nil {
		slog.Error("failed to start web server", "error", err)
		os.Exit(1)
	}
	ready.Set(true)
	slog.Info("web server listening", "addr", srv.Addr())

	// 7. Block until the context is canceled, then shut down gracefully.
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("web server shutdown error", "error", err)
	}

	slog.Info("gameservers-dashboard stopped")
}
