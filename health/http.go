package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ReportFunc produces a fresh Report for one request.
type ReportFunc func(ctx context.Context) Report

// LivenessHandler returns an HTTP handler for liveness probes.
// This is a simple check that the service is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler returns an HTTP handler for readiness probes.
// It runs the full report but answers in plain text.
func ReadinessHandler(build ReportFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := SafeReport(r.Context(), build)

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(report.HTTPStatus())
		if report.Healthy() {
			_, _ = w.Write([]byte("OK"))
			return
		}
		_, _ = w.Write([]byte("UNHEALTHY"))
	}
}

// ReportHandler returns an HTTP handler that writes the pretty-printed JSON
// report with 200 when healthy and 503 otherwise. A dependency failure never
// produces a 500.
func ReportHandler(build ReportFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := SafeReport(r.Context(), build)

		data, err := json.MarshalIndent(report, "", "    ")
		if err != nil {
			report = fallbackReport(fmt.Errorf("encode report: %w", err))
			data, _ = json.MarshalIndent(report, "", "    ")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(report.HTTPStatus())
		_, _ = w.Write(data)
	}
}

// SafeReport calls build and converts a panic into a best-effort unhealthy
// report instead of letting it escape.
func SafeReport(ctx context.Context, build ReportFunc) (report Report) {
	defer func() {
		if rec := recover(); rec != nil {
			report = fallbackReport(fmt.Errorf("%w: %v", ErrCheckPanicked, rec))
		}
	}()
	return build(ctx)
}

func fallbackReport(err error) Report {
	return Report{
		Status:    StatusUnhealthy,
		Timestamp: time.Now(),
		Checks: []NamedResult{{
			Name:   "internal",
			Result: Unhealthy(err.Error(), err),
		}},
		Info: NewInfo(),
	}
}
