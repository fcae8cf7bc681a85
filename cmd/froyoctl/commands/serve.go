package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/froyo-sdk/provider-sdk/examples/pkgprovider/pkgprovider"
	"github.com/froyo-sdk/provider-sdk/pkg/provider"
	"github.com/froyo-sdk/provider-sdk/pkg/rpc"
	"github.com/froyo-sdk/provider-sdk/pkg/telemetry"
)

// registeredProviders maps a --provider name to its constructor. New
// in-process example providers register themselves here.
var registeredProviders = map[string]func() provider.Provider{
	"pkgprovider": func() provider.Provider { return pkgprovider.NewProvider() },
}

func newServeCommand() *cobra.Command {
	var (
		providerName string
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the stdio JSON-RPC server loop hosting a registered example provider",
		Long: `serve reads newline-delimited JSON-RPC 2.0 requests from stdin, dispatches
them to an in-process example provider, and writes responses to
stdout. Diagnostics go to stderr, never stdout, so the wire channel
stays clean.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := rootLogger("froyoctl.serve")
			if err != nil {
				return err
			}

			if loadedConfig != nil {
				if !cmd.Flags().Changed("provider") && loadedConfig.Provider != "" {
					providerName = loadedConfig.Provider
				}
				if !cmd.Flags().Changed("metrics-addr") && loadedConfig.MetricsAddr != "" {
					metricsAddr = loadedConfig.MetricsAddr
				}
			}

			ctor, ok := registeredProviders[providerName]
			if !ok {
				return fmt.Errorf("unknown provider %q (known: pkgprovider)", providerName)
			}

			composite, err := pkgprovider.Validator()
			if err != nil {
				return err
			}

			dispatcher := rpc.NewDispatcher(ctor(), composite)

			if metricsAddr != "" {
				metrics, err := telemetry.NewMetrics(telemetry.MetricsConfig{
					Enabled:       true,
					ListenAddress: metricsAddr,
					Path:          "/metrics",
					Namespace:     "froyo",
				})
				if err != nil {
					return fmt.Errorf("failed to build metrics: %w", err)
				}
				if err := metrics.StartMetricsServer(); err != nil {
					return fmt.Errorf("failed to start metrics server: %w", err)
				}
				dispatcher = dispatcher.WithMetrics(rpc.NewMetrics(metrics))
				logger.WithField("addr", metricsAddr).Info("serving prometheus metrics")
			}

			logger.WithField("provider", providerName).Info("starting stdio server")
			server := rpc.NewServer(dispatcher, logger)
			return server.Serve(cmd.Context(), os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "pkgprovider", "registered in-process example provider to host")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}
