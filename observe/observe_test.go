package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func validConfig() Config {
	return Config{
		ServiceName: "healthprobe-test",
		Version:     "1.0.0",
		Tracing: TracingConfig{
			Enabled:   true,
			Exporter:  "none",
			SamplePct: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Exporter: "none",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"unknown tracing exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }, ErrInvalidTracingExporter},
		{"sample pct too high", func(c *Config) { c.Tracing.SamplePct = 1.5 }, ErrInvalidSamplePct},
		{"sample pct negative", func(c *Config) { c.Tracing.SamplePct = -0.1 }, ErrInvalidSamplePct},
		{"unknown metrics exporter", func(c *Config) { c.Metrics.Exporter = "statsd" }, ErrInvalidMetricsExporter},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
		{"disabled subsystems skip checks", func(c *Config) {
			c.Tracing = TracingConfig{Exporter: "zipkin"}
			c.Metrics = MetricsConfig{Exporter: "statsd"}
			c.Logging = LoggingConfig{Level: "trace"}
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Enabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	if obs.Tracer() == nil {
		t.Error("expected non-nil tracer")
	}
	if obs.Meter() == nil {
		t.Error("expected non-nil meter")
	}
	if _, ok := obs.Logger().(*structuredLogger); !ok {
		t.Errorf("Logger() = %T, want *structuredLogger", obs.Logger())
	}
}

func TestNewObserver_Noops(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "noop"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("expected non-nil noop primitives")
	}
	if _, ok := obs.Logger().(*noopLogger); !ok {
		t.Errorf("Logger() = %T, want *noopLogger", obs.Logger())
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	if _, err := NewObserver(context.Background(), Config{}); !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("NewObserver() error = %v, want ErrMissingServiceName", err)
	}
}

func TestNewResource(t *testing.T) {
	res, err := NewResource(context.Background(), Config{
		ServiceName: "healthprobe",
		Version:     "2.0.0",
		Environment: "staging",
		ReportPath:  "/ops/health",
		Parallel:    true,
	})
	if err != nil {
		t.Fatalf("NewResource() error = %v", err)
	}

	set := res.Set()
	want := map[attribute.Key]attribute.Value{
		semconv.ServiceNameKey:           attribute.StringValue("healthprobe"),
		semconv.ServiceVersionKey:        attribute.StringValue("2.0.0"),
		semconv.DeploymentEnvironmentKey: attribute.StringValue("staging"),
		AttrReportPath:                   attribute.StringValue("/ops/health"),
		AttrParallel:                     attribute.BoolValue(true),
	}
	for key, wantValue := range want {
		got, ok := set.Value(key)
		if !ok {
			t.Errorf("resource missing %s", key)
			continue
		}
		if got != wantValue {
			t.Errorf("%s = %v, want %v", key, got.Emit(), wantValue.Emit())
		}
	}
	if _, ok := set.Value(semconv.ProcessRuntimeNameKey); !ok {
		t.Errorf("resource missing %s", semconv.ProcessRuntimeNameKey)
	}
}

func TestNewResource_OmitsUnsetEndpoint(t *testing.T) {
	res, err := NewResource(context.Background(), Config{ServiceName: "healthprobe"})
	if err != nil {
		t.Fatalf("NewResource() error = %v", err)
	}
	for _, key := range []attribute.Key{semconv.DeploymentEnvironmentKey, AttrReportPath} {
		if _, ok := res.Set().Value(key); ok {
			t.Errorf("resource has %s, want absent", key)
		}
	}
}

func TestNewObserver_Resource(t *testing.T) {
	cfg := validConfig()
	cfg.ReportPath = "/health"
	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	got, ok := obs.Resource().Set().Value(AttrReportPath)
	if !ok || got.AsString() != "/health" {
		t.Errorf("%s = %v, want /health", AttrReportPath, got.Emit())
	}
}

func TestNewServiceLogger(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "staging"

	logger := newServiceLogger(cfg).(*structuredLogger)
	var buf bytes.Buffer
	logger.writer = &buf

	logger.Info(context.Background(), "check completed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["service"] != "healthprobe-test" {
		t.Errorf("service = %v, want healthprobe-test", entry["service"])
	}
	if entry["environment"] != "staging" {
		t.Errorf("environment = %v, want staging", entry["environment"])
	}
}
