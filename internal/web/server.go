package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gym-infra/gameservers-dashboard/internal/config"
	"github.com/gym-infra/gameservers-dashboard/internal/observability"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Server serves the dashboard pages, the JSON API, and the operational
// endpoints on a single port.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *observability.Metrics
	accessors  AccessorFactory
	readiness  ReadinessChecker
	templates  *template.Template
	listener   net.Listener
}

// NewServer wires the routes and middleware. Pass cfg.ListenPort=0 to let
// the OS pick a free port (useful for tests).
func NewServer(cfg config.Config, logger *slog.Logger, metrics *observability.Metrics, accessors AccessorFactory, readiness ReadinessChecker) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	s := &Server{
		logger:    logger,
		metrics:   metrics,
		accessors: accessors,
		readiness: readiness,
		templates: tmpl,
	}

	mux := http.NewServeMux()

	// HTML pages.
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /game/{name}", s.handleGamePage)
	mux.HandleFunc("GET /deployment/{namespace}/{name}", s.handleDetailPage)
	mux.Handle("GET /static/", http.FileServer(http.FS(assets)))

	// JSON API.
	mux.HandleFunc("GET /api/games", s.handleAPIGames)
	mux.HandleFunc("GET /api/games/{name}", s.handleAPIGame)
	mux.HandleFunc("GET /api/deployments/{namespace}/{name}", s.handleAPIDeployment)
	mux.HandleFunc("GET /api/pods/{namespace}/{name}/logs", s.handleAPIPodLogs)
	mux.HandleFunc("POST /api/deployments/{namespace}/{name}/restart", s.handleAPIRestart)
	mux.HandleFunc("PUT /api/deployments/{namespace}/{name}/scale", s.handleAPIScale)

	// Operational endpoints.
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	if cfg.DebugEndpoints {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	// Metrics run innermost so the matched route pattern is visible; the
	// timeout clones the request, so anything inside it shares the clone
	// the mux annotates.
	var handler http.Handler = withMetrics(s.metrics, mux)
	handler = withTimeout(cfg.RequestTimeout, handler)
	handler = withLogging(logger, handler)
	handler = withRequestID(handler)
	handler = gzhttp.GzipHandler(handler)

	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.ListenPort),
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return s, nil
}

// Addr returns the bound address, valid after Start.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start begins listening and serving HTTP in a background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("web server listen: %w", err)
	}
	s.listener = ln
	// Update Addr to the actual address (important when port=0).
	s.httpServer.Addr = ln.Addr().String()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("web server exited", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
