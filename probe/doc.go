// Package probe runs the dependency checks behind the health endpoint.
//
// Every call to RunHealthCheck reads its configuration from the process
// environment, registers the checks that apply, runs them in order and folds
// them into a health.Report:
//
//   - database: MySQL, only when DB_HOST or MYSQL_HOST is set
//   - redis: only when the Redis capability is on and REDIS_HOST is set
//   - filesystem: always, a scratch file round-trip in the temp directory
//   - opcache: only when a bytecode-cache introspector is available
//
// A check that does not apply is left out of the report entirely. The
// opcache check is the one exception that can report "disabled".
//
// Options.Resolve can rewrite values before use, for example secret
// references. A host that is set but fails to resolve keeps its check,
// which then reports unhealthy.
package probe
