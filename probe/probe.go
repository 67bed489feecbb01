package probe

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/afero"

	"github.com/jonwraymond/healthprobe/health"
	"github.com/jonwraymond/healthprobe/observe"
	"github.com/jonwraymond/healthprobe/opcache"
)

// Info keys always present in a report.
const (
	InfoGoVersion = "go_version"
	InfoHostname  = "hostname"
)

// Capabilities are the runtime features resolved once at startup.
type Capabilities struct {
	// Redis enables the redis check when REDIS_HOST is set.
	Redis bool

	// Opcache is the bytecode cache introspector. Nil omits the check.
	Opcache opcache.Introspector
}

// DefaultCapabilities enables Redis and resolves the opcache introspector
// from lookup. When the error wraps opcache.ErrInvalidTimeout the returned
// capabilities still carry the introspector, using the default timeout.
func DefaultCapabilities(lookup LookupFunc) (Capabilities, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	introspector, err := opcache.FromEnv(lookup)
	return Capabilities{Redis: true, Opcache: introspector}, err
}

// Options configures a Prober.
type Options struct {
	// Lookup reads environment variables. Default: os.LookupEnv
	Lookup LookupFunc

	// Resolve is applied to every value Lookup returns. Nil uses raw values.
	Resolve ResolveFunc

	// Capabilities gates the optional checks.
	Capabilities Capabilities

	// Aggregator configures how checks are run. A zero Timeout is derived
	// from the check timeout.
	Aggregator health.AggregatorConfig

	// Fs is the filesystem the scratch file is written to. Default: OS filesystem
	Fs afero.Fs

	// Middleware wraps every check with tracing, metrics, and logging.
	// Nil disables instrumentation.
	Middleware *observe.Middleware

	// Hostname resolves the host name for the info section. Default: os.Hostname
	Hostname func() (string, error)
}

// Prober builds health reports. Configuration is read from the environment
// on every call, so a Prober holds no per-request state and is safe for
// concurrent use.
type Prober struct {
	opts Options
}

// New creates a Prober.
func New(opts Options) *Prober {
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Hostname == nil {
		opts.Hostname = os.Hostname
	}
	return &Prober{opts: opts}
}

// checks returns the checkers enabled by cfg, in report order.
func (p *Prober) checks(cfg CheckConfig) []health.Checker {
	var checks []health.Checker

	if cfg.Database != nil {
		checks = append(checks, NewDatabaseChecker(*cfg.Database, cfg.Timeout))
	}
	if p.opts.Capabilities.Redis && cfg.Redis != nil {
		checks = append(checks, NewRedisChecker(*cfg.Redis, cfg.Timeout))
	}
	checks = append(checks, NewFilesystemChecker(p.opts.Fs, cfg.TempDir))
	if p.opts.Capabilities.Opcache != nil {
		checks = append(checks, NewOpcacheChecker(p.opts.Capabilities.Opcache))
	}

	return checks
}

func (p *Prober) aggregator(cfg CheckConfig) *health.Aggregator {
	aggCfg := p.opts.Aggregator
	if aggCfg.Timeout <= 0 {
		// Connect plus query for the slowest check.
		aggCfg.Timeout = 3 * cfg.Timeout
	}

	agg := health.NewAggregator(aggCfg)
	for _, c := range p.checks(cfg) {
		if p.opts.Middleware != nil {
			c = p.opts.Middleware.WrapChecker(c, observe.CheckMeta{Name: c.Name(), Target: target(c)})
		}
		agg.Register(c.Name(), c)
	}
	return agg
}

// Report runs every enabled check and returns the report.
func (p *Prober) Report(ctx context.Context) health.Report {
	cfg := LoadCheckConfig(p.opts.Lookup, p.opts.Resolve)
	report := p.aggregator(cfg).Report(ctx)

	info := health.NewInfo()
	info.Set(InfoGoVersion, runtime.Version())
	info.Set(InfoHostname, p.hostname())
	if report.Info != nil {
		for _, k := range report.Info.Keys() {
			v, _ := report.Info.Get(k)
			info.Set(k, v)
		}
	}
	report.Info = info

	return report
}

// RunHealthCheck returns the report and the HTTP status code for it.
func (p *Prober) RunHealthCheck(ctx context.Context) (health.Report, int) {
	report := health.SafeReport(ctx, p.Report)
	return report, report.HTTPStatus()
}

func (p *Prober) hostname() string {
	name, err := p.opts.Hostname()
	if err != nil || name == "" {
		return "unknown"
	}
	return name
}

// unresolved reports a dependency whose settings could not be resolved.
func unresolved(err error) health.Result {
	return health.Unhealthy("secret reference not resolved: "+err.Error(), fmt.Errorf("%w: %w", ErrUnresolved, err))
}

func target(c health.Checker) string {
	switch c := c.(type) {
	case *DatabaseChecker:
		return c.config.Addr()
	case *RedisChecker:
		if c.config.URL() {
			return ""
		}
		return c.config.Addr()
	case *FilesystemChecker:
		return c.dir
	}
	return ""
}

var (
	defaultOnce   sync.Once
	defaultProber *Prober
)

// RunHealthCheck runs the default prober: OS environment, OS filesystem,
// Redis enabled, opcache resolved from OPCACHE_STATUS_URL on first use.
func RunHealthCheck(ctx context.Context) (health.Report, int) {
	defaultOnce.Do(func() {
		defaultProber = newDefaultProber(ctx, nil, observe.NewLogger("warn"))
	})
	return defaultProber.RunHealthCheck(ctx)
}

// newDefaultProber builds a prober from lookup. A capability error is logged
// and the prober keeps whatever capabilities were resolved.
func newDefaultProber(ctx context.Context, lookup LookupFunc, logger observe.Logger) *Prober {
	caps, err := DefaultCapabilities(lookup)
	if err != nil {
		logger.Warn(ctx, "opcache capability degraded", observe.Field{Key: "error", Value: err.Error()})
	}
	return New(Options{Lookup: lookup, Capabilities: caps})
}

// Handler returns the JSON report handler for p.
func (p *Prober) Handler() health.ReportFunc {
	return p.Report
}
