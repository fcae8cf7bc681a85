// Package commands implements froyoctl's cobra command tree: one file
// per subcommand, sharing the persistent --config/--verbose/--json
// flags and a component logger built from them.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/froyo-sdk/provider-sdk/pkg/telemetry"
)

var (
	configPath string
	verbose    bool
	jsonOutput bool

	// loadedConfig holds --config's parsed contents, if any, after the
	// root command's PersistentPreRunE runs. Subcommands read it to fill
	// in flag defaults a caller left unset.
	loadedConfig *fileConfig
)

// fileConfig is the optional YAML config file read via --config. Every
// field mirrors a flag some subcommand exposes; an unset field leaves
// that subcommand's own flag default in place.
type fileConfig struct {
	Provider    string `yaml:"provider"`
	MetricsAddr string `yaml:"metrics_addr"`
	StatePath   string `yaml:"state_path"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return &cfg, nil
}

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "froyoctl",
		Short: "froyoctl drives a provider SDK-based plugin from the command line",
		Long: `froyoctl exercises a provider plugin's JSON-RPC contract by hand:
start a provider's stdio server loop, call one of its six methods from
a client, parse or derive a provider-source string, and read/write a
state file - all without writing a Go program against the engine.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(configPath)
			if err != nil {
				return err
			}
			loadedConfig = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file setting defaults for provider/metrics-addr/state path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "accepted but not read by any subcommand; output format is fixed per subcommand")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newCallCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newSourceCommand())
	rootCmd.AddCommand(newStateCommand())
	rootCmd.AddCommand(newDescribeCommand())

	return rootCmd
}

// rootLogger builds a component logger honoring the persistent
// --verbose flag, tagged with component.
func rootLogger(component string) (*telemetry.Logger, error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	logger, err := telemetry.NewLogger(telemetry.LoggingConfig{
		Level:  level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.NewComponentLogger(component), nil
}
