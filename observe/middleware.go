package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/healthprobe/health"
)

// Middleware wraps health checks with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: wrapped checkers are safe for concurrent use if the inner one is.
//   - Context: the span context is passed to the inner check.
//   - Errors: results are passed through unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
// Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Logger returns the logger the middleware writes to.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// WrapChecker returns a checker that records a span, metrics, and a log line
// around every run of c.
func (m *Middleware) WrapChecker(c health.Checker, meta CheckMeta) health.Checker {
	if meta.Name == "" {
		meta.Name = c.Name()
	}
	return &observedChecker{inner: c, meta: meta, mw: m}
}

type observedChecker struct {
	inner health.Checker
	meta  CheckMeta
	mw    *Middleware
}

func (o *observedChecker) Name() string {
	return o.inner.Name()
}

func (o *observedChecker) Check(ctx context.Context) health.Result {
	ctx, span := o.mw.tracer.StartSpan(ctx, o.meta)
	start := time.Now()

	result := o.inner.Check(ctx)

	duration := time.Since(start)
	status := result.Status.String()

	var spanErr error
	if result.Status == health.StatusUnhealthy {
		spanErr = result.Error
		if spanErr == nil {
			spanErr = health.ErrCheckFailed
		}
	}
	o.mw.tracer.EndSpan(span, status, spanErr)
	o.mw.metrics.RecordCheck(ctx, o.meta, duration, status)

	log := o.mw.logger.WithCheck(o.meta)
	fields := []Field{
		{Key: "status", Value: status},
		{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
	}

	switch result.Status {
	case health.StatusUnhealthy:
		fields = append(fields, Field{Key: "error", Value: result.Message})
		log.Warn(ctx, "health check failed", fields...)
	case health.StatusDisabled:
		log.Info(ctx, "health check disabled", fields...)
	default:
		log.Debug(ctx, "health check passed", fields...)
	}

	return result
}
