package errreport

import (
	"os"
	"strconv"
)

// Defaults applied by LoadConfig.
const (
	DefaultEnvironment      = "production"
	DefaultRelease          = "1.0.0"
	DefaultTracesSampleRate = 0.1
	DefaultMaxBreadcrumbs   = 50
)

// Config holds the reporting settings.
type Config struct {
	Enabled          bool
	DSN              string
	Environment      string
	Release          string
	ServerName       string
	TracesSampleRate float64
	UserID           string

	// Hostname is APP_HOSTNAME as given; it is only used as a tag when set.
	Hostname string
}

// LoadConfig reads the SENTRY_* and APP_* variables. A nil lookup uses
// os.LookupEnv.
func LoadConfig(lookup func(string) (string, bool)) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := Config{
		Enabled:          get("SENTRY_ENABLED") == "true",
		DSN:              get("SENTRY_DSN"),
		Environment:      orDefault(get("SENTRY_ENVIRONMENT"), DefaultEnvironment),
		Release:          orDefault(get("APP_VERSION"), DefaultRelease),
		Hostname:         get("APP_HOSTNAME"),
		TracesSampleRate: DefaultTracesSampleRate,
		UserID:           get("SENTRY_USER_ID"),
	}

	cfg.ServerName = cfg.Hostname
	if cfg.ServerName == "" {
		cfg.ServerName, _ = os.Hostname()
	}

	if raw := get("SENTRY_TRACE_SAMPLE_RATE"); raw != "" {
		if rate, err := strconv.ParseFloat(raw, 64); err == nil && rate >= 0 && rate <= 1 {
			cfg.TracesSampleRate = rate
		}
	}

	return cfg
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
