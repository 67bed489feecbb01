package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthprobe/server"
)

// errUnhealthy is returned by check so the process exits non-zero without
// printing an error.
var errUnhealthy = errors.New("unhealthy")

func newCheckCmd(root *rootOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the checks once and print the report",
		Long: `Run every configured check once, print the JSON report and exit 0 when
healthy or 1 when unhealthy. Suitable for a container HEALTHCHECK.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(root.configFile, nil)
			if err != nil {
				return err
			}
			env := newEnvironment(func(key string, err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", key, err)
			})
			prober, err := newProber(cfg, env, nil)
			if err != nil {
				return err
			}

			report, code := prober.RunHealthCheck(cmd.Context())

			if !quiet {
				data, err := json.MarshalIndent(report, "", "    ")
				if err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}

			if code != http.StatusOK {
				return errUnhealthy
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only set the exit code")
	return cmd
}
