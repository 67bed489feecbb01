package errreport

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

// URL fragments whose events are never reported. HealthPath also covers
// the /healthz liveness route.
const (
	HealthPath    = "/health"
	ReadinessPath = "/readyz"
)

var quietPaths = []string{HealthPath, ReadinessPath}

// Reporter is the initialized error reporter. The zero value is a disabled
// reporter whose methods are no-ops.
type Reporter struct {
	enabled bool
	handler *sentryhttp.Handler
}

// Init initializes the global Sentry client from cfg. It returns a disabled
// Reporter when reporting is off, and a disabled Reporter with ErrMissingDSN
// when it is on but no DSN is configured.
func Init(cfg Config) (*Reporter, error) {
	if !cfg.Enabled {
		return &Reporter{}, nil
	}
	if cfg.DSN == "" {
		return &Reporter{}, ErrMissingDSN
	}

	if err := sentry.Init(clientOptions(cfg)); err != nil {
		return &Reporter{}, fmt.Errorf("%w: %v", ErrInit, err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		if cfg.UserID != "" {
			scope.SetUser(sentry.User{ID: cfg.UserID})
		}
		scope.SetTag("go_version", runtime.Version())
		scope.SetTag("go_os", runtime.GOOS)
		if cfg.Hostname != "" {
			scope.SetTag("hostname", cfg.Hostname)
		}
	})

	return &Reporter{
		enabled: true,
		handler: sentryhttp.New(sentryhttp.Options{Repanic: true}),
	}, nil
}

func clientOptions(cfg Config) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:                   cfg.DSN,
		Environment:           cfg.Environment,
		Release:               cfg.Release,
		ServerName:            cfg.ServerName,
		EnableTracing:         cfg.TracesSampleRate > 0,
		TracesSampleRate:      cfg.TracesSampleRate,
		SendDefaultPII:        false,
		MaxBreadcrumbs:        DefaultMaxBreadcrumbs,
		BeforeSend:            FilterHealthEvents,
		BeforeSendTransaction: FilterHealthEvents,
	}
}

// FilterHealthEvents drops events raised while serving a request whose URL
// contains /health or /readyz.
func FilterHealthEvents(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if event == nil {
		return nil
	}
	if event.Request != nil && isQuietURL(event.Request.URL) {
		return nil
	}
	if hint != nil && hint.Request != nil && hint.Request.URL != nil &&
		isQuietURL(hint.Request.URL.String()) {
		return nil
	}
	return event
}

func isQuietURL(url string) bool {
	for _, p := range quietPaths {
		if strings.Contains(url, p) {
			return true
		}
	}
	return false
}

// Enabled reports whether events are being sent.
func (r *Reporter) Enabled() bool {
	return r != nil && r.enabled
}

// Middleware attaches a Sentry hub to every request and reports panics
// before re-panicking. It returns next unchanged when reporting is off.
func (r *Reporter) Middleware(next http.Handler) http.Handler {
	if !r.Enabled() {
		return next
	}
	return r.handler.Handle(next)
}

// Flush waits up to timeout for buffered events to be delivered.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return sentry.Flush(timeout)
}
