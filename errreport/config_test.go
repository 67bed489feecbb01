package errreport

import (
	"os"
	"testing"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig(mapLookup(nil))

	if cfg.Enabled {
		t.Error("Enabled = true, want false")
	}
	if cfg.Environment != DefaultEnvironment {
		t.Errorf("Environment = %q, want %q", cfg.Environment, DefaultEnvironment)
	}
	if cfg.Release != DefaultRelease {
		t.Errorf("Release = %q, want %q", cfg.Release, DefaultRelease)
	}
	if cfg.TracesSampleRate != DefaultTracesSampleRate {
		t.Errorf("TracesSampleRate = %v, want %v", cfg.TracesSampleRate, DefaultTracesSampleRate)
	}
	if host, err := os.Hostname(); err == nil && cfg.ServerName != host {
		t.Errorf("ServerName = %q, want %q", cfg.ServerName, host)
	}
	if cfg.Hostname != "" {
		t.Errorf("Hostname = %q, want empty", cfg.Hostname)
	}
}

func TestLoadConfig_Values(t *testing.T) {
	cfg := LoadConfig(mapLookup(map[string]string{
		"SENTRY_ENABLED":           "true",
		"SENTRY_DSN":               "https://key@sentry.example.com/1",
		"SENTRY_ENVIRONMENT":       "staging",
		"APP_VERSION":              "2.3.4",
		"APP_HOSTNAME":             "web-1",
		"SENTRY_TRACE_SAMPLE_RATE": "0.5",
		"SENTRY_USER_ID":           "42",
	}))

	want := Config{
		Enabled:          true,
		DSN:              "https://key@sentry.example.com/1",
		Environment:      "staging",
		Release:          "2.3.4",
		ServerName:       "web-1",
		TracesSampleRate: 0.5,
		UserID:           "42",
		Hostname:         "web-1",
	}
	if cfg != want {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfig_Enabled(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"TRUE", false},
		{"1", false},
		{"false", false},
		{"", false},
	}

	for _, tt := range tests {
		cfg := LoadConfig(mapLookup(map[string]string{"SENTRY_ENABLED": tt.raw}))
		if cfg.Enabled != tt.want {
			t.Errorf("SENTRY_ENABLED=%q: Enabled = %v, want %v", tt.raw, cfg.Enabled, tt.want)
		}
	}
}

func TestLoadConfig_SampleRate(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"0", 0},
		{"1", 1},
		{"0.25", 0.25},
		{"abc", DefaultTracesSampleRate},
		{"2", DefaultTracesSampleRate},
		{"-0.5", DefaultTracesSampleRate},
	}

	for _, tt := range tests {
		cfg := LoadConfig(mapLookup(map[string]string{"SENTRY_TRACE_SAMPLE_RATE": tt.raw}))
		if cfg.TracesSampleRate != tt.want {
			t.Errorf("SENTRY_TRACE_SAMPLE_RATE=%q: rate = %v, want %v", tt.raw, cfg.TracesSampleRate, tt.want)
		}
	}
}
