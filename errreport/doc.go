// Package errreport bootstraps Sentry error reporting from the environment.
//
// Reporting is opt-in: nothing is initialized unless SENTRY_ENABLED is "true"
// and SENTRY_DSN is set. Events and transactions for requests whose URL
// contains /health or /readyz are dropped so load balancer probes never
// reach Sentry.
//
// Init is called once at process start; the resulting Reporter is read-only
// and safe for concurrent use.
package errreport
