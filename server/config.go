package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved server configuration.
type Config struct {
	ServiceName string
	Version     string
	Environment string

	Addr            string
	Path            string
	ShutdownTimeout time.Duration

	// Parallel runs the checks concurrently, bounded by MaxConcurrency.
	Parallel       bool
	MaxConcurrency int

	LogLevel        string
	TracesExporter  string
	TraceSamplePct  float64
	MetricsExporter string
}

// configFile mirrors the YAML schema.
type configFile struct {
	Service struct {
		Name        string `yaml:"name"`
		Version     string `yaml:"version"`
		Environment string `yaml:"environment"`
	} `yaml:"service"`
	HTTP struct {
		Addr            string `yaml:"addr"`
		Path            string `yaml:"path"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"http"`
	Checks struct {
		Parallel       *bool `yaml:"parallel"`
		MaxConcurrency int   `yaml:"max_concurrency"`
	} `yaml:"checks"`
	Telemetry struct {
		LogLevel        string   `yaml:"log_level"`
		TracesExporter  string   `yaml:"traces_exporter"`
		TraceSamplePct  *float64 `yaml:"trace_sample_pct"`
		MetricsExporter string   `yaml:"metrics_exporter"`
	} `yaml:"telemetry"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		ServiceName:     "healthprobe",
		Version:         "dev",
		Environment:     "production",
		Addr:            ":8080",
		Path:            "/health",
		ShutdownTimeout: 10 * time.Second,
		MaxConcurrency:  4,
		LogLevel:        "info",
		TracesExporter:  "none",
		TraceSamplePct:  1.0,
		MetricsExporter: "none",
	}
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// An empty path or a missing file skips the file layer. A nil lookup uses
// os.LookupEnv.
func LoadConfig(path string, lookup func(string) (string, bool)) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.applyFile(raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.applyEnv(lookup)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if f.Service.Name != "" {
		c.ServiceName = f.Service.Name
	}
	if f.Service.Version != "" {
		c.Version = f.Service.Version
	}
	if f.Service.Environment != "" {
		c.Environment = f.Service.Environment
	}
	if f.HTTP.Addr != "" {
		c.Addr = f.HTTP.Addr
	}
	if f.HTTP.Path != "" {
		c.Path = f.HTTP.Path
	}
	if f.HTTP.ShutdownTimeout != "" {
		d, err := time.ParseDuration(f.HTTP.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("parse config file: shutdown_timeout: %w", err)
		}
		c.ShutdownTimeout = d
	}
	if f.Checks.Parallel != nil {
		c.Parallel = *f.Checks.Parallel
	}
	if f.Checks.MaxConcurrency > 0 {
		c.MaxConcurrency = f.Checks.MaxConcurrency
	}
	if f.Telemetry.LogLevel != "" {
		c.LogLevel = f.Telemetry.LogLevel
	}
	if f.Telemetry.TracesExporter != "" {
		c.TracesExporter = f.Telemetry.TracesExporter
	}
	if f.Telemetry.TraceSamplePct != nil {
		c.TraceSamplePct = *f.Telemetry.TraceSamplePct
	}
	if f.Telemetry.MetricsExporter != "" {
		c.MetricsExporter = f.Telemetry.MetricsExporter
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get("APP_VERSION"); v != "" {
		c.Version = v
	}
	if v := get("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := get("HEALTH_ADDR"); v != "" {
		c.Addr = v
	}
	if v := get("HEALTH_PATH"); v != "" {
		c.Path = v
	}
	if v := get("HEALTH_PARALLEL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Parallel = b
		}
	}
	if v := get("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := get("OTEL_TRACES_EXPORTER"); v != "" {
		c.TracesExporter = v
	}
	if v := get("OTEL_METRICS_EXPORTER"); v != "" {
		c.MetricsExporter = v
	}
}

// Validate checks the fields the router depends on.
func (c Config) Validate() error {
	if c.Addr == "" {
		return ErrMissingAddr
	}
	if !strings.HasPrefix(c.Path, "/") || !strings.Contains(c.Path, "/health") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, c.Path)
	}
	return nil
}
