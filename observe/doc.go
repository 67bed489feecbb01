// Package observe provides observability primitives for health checks.
//
// It wires OpenTelemetry tracing and metrics plus a JSON structured logger,
// and offers a Middleware that wraps a health.Checker so every check run
// produces a span, metric points, and a log line.
package observe
