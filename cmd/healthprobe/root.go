package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthprobe/health"
	"github.com/jonwraymond/healthprobe/observe"
	"github.com/jonwraymond/healthprobe/probe"
	"github.com/jonwraymond/healthprobe/secret"
	"github.com/jonwraymond/healthprobe/server"
)

type rootOptions struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "healthprobe",
		Short: "Dependency health checks over HTTP",
		Long: `healthprobe checks the database, cache, filesystem and bytecode cache a
service depends on and reports one verdict: 200 when healthy, 503 otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(opts.envFile)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(newServeCmd(opts), newCheckCmd(opts), newVersionCmd())
	return cmd
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// secretsDir is where relative secretref:file: references are looked up.
const secretsDir = "/run/secrets"

// environment reads process variables and resolves secretref: values.
type environment struct {
	resolver *secret.Resolver
	onError  func(key string, err error)
}

func newEnvironment(onError func(key string, err error)) *environment {
	return &environment{
		resolver: secret.NewResolver(true,
			secret.NewEnvProvider(nil),
			secret.NewFileProvider(nil, secretsDir),
		),
		onError: onError,
	}
}

// lookup returns resolved values. An unresolved reference reads as empty.
func (e *environment) lookup() probe.LookupFunc {
	return e.resolver.Lookup(os.LookupEnv, e.onError)
}

// newProber builds a prober for cfg. mw may be nil. Check settings are read
// raw and resolved by the prober, so an unresolved host fails its check.
func newProber(cfg server.Config, env *environment, mw *observe.Middleware) (*probe.Prober, error) {
	caps, err := probe.DefaultCapabilities(env.lookup())
	if err != nil {
		return nil, fmt.Errorf("opcache capability: %w", err)
	}
	return probe.New(probe.Options{
		Lookup:       os.LookupEnv,
		Resolve:      env.resolver.ResolveFunc(env.onError),
		Capabilities: caps,
		Aggregator: health.AggregatorConfig{
			Parallel:       cfg.Parallel,
			MaxConcurrency: cfg.MaxConcurrency,
		},
		Middleware: mw,
	}), nil
}

const flushTimeout = 2 * time.Second
