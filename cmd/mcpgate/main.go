// Package main provides the mcpgate CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcpgate/mcpgate/internal/config"
	"github.com/mcpgate/mcpgate/internal/handler"
)

var (
	configPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcpgate",
		Short: "Local tool-dispatch gateway",
		Long: `mcpgate: a local gateway that forwards tool requests to a bridge worker.

  mcpgate gateway   Run the public proxy; it starts the bridge on demand
  mcpgate bridge    Run the bridge worker
  mcpgate all       Run both in one process
  mcpgate repl      Interactive session against a running gateway`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "JSON config file (default $MCPGATE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(gatewayCmd())
	rootCmd.AddCommand(bridgeCmd())
	rootCmd.AddCommand(allCmd())
	rootCmd.AddCommand(toolsCmd())
	rootCmd.AddCommand(callCmd())
	rootCmd.AddCommand(replCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies --config and --log-level on top of config.Load and sets
// up logging.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("MCPGATE_CONFIG")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	setupLogging(cfg)
	return cfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "mcpgate", handler.Version)
		},
	}
}
