// Package server exposes the health report over HTTP.
//
// Routes:
//
//	GET <path>    JSON report, 200 healthy / 503 unhealthy (default /health)
//	GET /healthz  liveness, always 200
//	GET /readyz   readiness, plain text, 200 / 503
//	GET /metrics  Prometheus scrape endpoint when the prometheus exporter is used
//
// Configuration is resolved in priority order: defaults, then an optional
// YAML file, then environment variables.
package server
