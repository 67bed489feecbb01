// Package health provides the health checking primitives behind the probe.
//
// A Checker reports the state of one dependency as a Result whose Status is
// Healthy, Disabled, or Unhealthy. An Aggregator runs registered checkers in
// registration order, isolates each one (timeouts and panics become Unhealthy
// results), and folds the outcomes into a Report.
//
// # Verdict
//
// A Report is healthy unless at least one check is Unhealthy. Disabled checks
// are reported but never flip the verdict. HTTPStatus maps the verdict to 200
// or 503.
//
// # Basic Usage
//
//	agg := health.NewAggregator()
//	agg.Register("database", dbChecker)
//	agg.Register("filesystem", fsChecker)
//
//	report := agg.Report(ctx)
//	if !report.Healthy() {
//	    log.Printf("unhealthy: %v", report.CheckNames())
//	}
//
// # HTTP Endpoints
//
//	http.Handle("/healthz", health.LivenessHandler())
//	http.Handle("/readyz", health.ReadinessHandler(agg.Report))
//	http.Handle("/health", health.ReportHandler(agg.Report))
//
// ReportHandler writes the report as indented JSON:
//
//	{
//	    "status": "healthy",
//	    "timestamp": 1700000000,
//	    "checks": {"filesystem": "healthy", "opcache": "disabled"},
//	    "info": {"go_version": "go1.25.0", "hostname": "web-1"}
//	}
package health
