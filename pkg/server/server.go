package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/sanitycheck/pkg/config"
	"mercator-hq/sanitycheck/pkg/history"
	"mercator-hq/sanitycheck/pkg/sanitycheck"
	"mercator-hq/sanitycheck/pkg/server/middleware"
	"mercator-hq/sanitycheck/pkg/telemetry/health"
	"mercator-hq/sanitycheck/pkg/telemetry/metrics"
)

// Deps are the components the service routes to. Runner and Health are
// required; History and Metrics may be nil.
type Deps struct {
	Runner  *sanitycheck.Runner
	Health  *health.Checker
	Version health.VersionInfo
	History history.Storage
	Metrics *metrics.Collector
}

// Server is the HTTP validation service.
type Server struct {
	config     config.ServerConfig
	metricsCfg config.MetricsConfig
	deps       Deps
	logger     *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// New creates a server. Call Start to serve.
func New(cfg config.ServerConfig, metricsCfg config.MetricsConfig, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:     cfg,
		metricsCfg: metricsCfg,
		deps:       deps,
		logger:     logger.With("component", "server"),
	}
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /v1/validate", s.handleValidate())
	if s.deps.History != nil {
		mux.Handle("GET /v1/reports", s.handleListReports())
		mux.Handle("GET /v1/reports/{id}", s.handleGetReport())
	}
	if s.deps.Health != nil {
		health.Mount(mux, s.deps.Health, s.deps.Version)
	}
	if s.deps.Metrics != nil && s.metricsCfg.Enabled {
		path := s.metricsCfg.Path
		if path == "" {
			path = config.DefaultMetricsPath
		}
		mux.Handle("GET "+path, s.deps.Metrics.Handler())
	}

	var observer middleware.RequestObserver
	if s.deps.Metrics != nil {
		observer = s.deps.Metrics
	}
	return middleware.Chain(mux,
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logging(s.logger, observer),
	)
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.listener = ln
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting validation server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	}
}

// Addr returns the listening address once serving.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) shutdown() error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("validation server stopped")
	return nil
}
