package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthprobe/errreport"
	"github.com/jonwraymond/healthprobe/observe"
	"github.com/jonwraymond/healthprobe/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(root.configFile, nil)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func observerConfig(cfg server.Config) observe.Config {
	return observe.Config{
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
		ReportPath:  cfg.Path,
		Parallel:    cfg.Parallel,
		Tracing: observe.TracingConfig{
			Enabled:   cfg.TracesExporter != "" && cfg.TracesExporter != "none",
			Exporter:  cfg.TracesExporter,
			SamplePct: cfg.TraceSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  cfg.MetricsExporter != "" && cfg.MetricsExporter != "none",
			Exporter: cfg.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   cfg.LogLevel,
		},
	}
}

func serve(ctx context.Context, cfg server.Config) error {
	obs, err := observe.NewObserver(ctx, observerConfig(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = obs.Shutdown(context.WithoutCancel(ctx)) }()

	logger := obs.Logger()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}

	env := newEnvironment(func(key string, err error) {
		logger.Warn(ctx, "secret reference not resolved",
			observe.Field{Key: "variable", Value: key},
			observe.Field{Key: "error", Value: err.Error()},
		)
	})

	reporter, err := errreport.Init(errreport.LoadConfig(env.lookup()))
	switch {
	case errors.Is(err, errreport.ErrMissingDSN):
		logger.Warn(ctx, "error reporting disabled", observe.Field{Key: "error", Value: err.Error()})
	case err != nil:
		logger.Error(ctx, "error reporting disabled", observe.Field{Key: "error", Value: err.Error()})
	case reporter.Enabled():
		logger.Info(ctx, "error reporting enabled")
	}
	defer reporter.Flush(flushTimeout)

	prober, err := newProber(cfg, env, mw)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, server.Options{
		Report:   prober.Handler(),
		Reporter: reporter,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
