package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/healthprobe/errreport"
	"github.com/jonwraymond/healthprobe/health"
	"github.com/jonwraymond/healthprobe/observe"
)

// Options are the collaborators the server routes to.
type Options struct {
	// Report builds a fresh report per request (required).
	Report health.ReportFunc

	// Reporter wraps handlers with Sentry. Nil disables it.
	Reporter *errreport.Reporter

	// Logger receives request logs. Nil discards them.
	Logger observe.Logger

	// Metrics serves /metrics. When nil and the metrics exporter is
	// prometheus, the default Prometheus registry is served.
	Metrics http.Handler
}

// Server serves the health report.
type Server struct {
	cfg    Config
	opts   Options
	router http.Handler
}

// New builds the router for cfg.
func New(cfg Config, opts Options) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Report == nil {
		return nil, ErrNilProber
	}
	if opts.Logger == nil {
		opts.Logger = observe.NopLogger()
	}
	if opts.Metrics == nil && cfg.MetricsExporter == "prometheus" {
		opts.Metrics = promhttp.Handler()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{cfg: cfg, opts: opts}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.opts.Logger, s.cfg.Path))
	r.Use(middleware.Recoverer)
	r.Use(s.opts.Reporter.Middleware)

	r.Get(s.cfg.Path, health.ReportHandler(s.opts.Report))
	r.Get("/healthz", health.LivenessHandler())
	r.Get(errreport.ReadinessPath, health.ReadinessHandler(s.opts.Report))
	if s.opts.Metrics != nil {
		r.Handle("/metrics", s.opts.Metrics)
	}

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info(ctx, "http server started",
			observe.Field{Key: "addr", Value: ln.Addr().String()},
			observe.Field{Key: "path", Value: s.cfg.Path},
		)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.opts.Logger.Info(context.WithoutCancel(ctx), "shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
