package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mcpgate/mcpgate/internal/config"
	"github.com/mcpgate/mcpgate/internal/server"
	"github.com/mcpgate/mcpgate/internal/supervisor"
)

func gatewayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gateway",
		Short: "Run the gateway proxy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			launcher, err := workerLauncher(cfg)
			if err != nil {
				return err
			}
			srv, _, err := server.NewGateway(cfg, launcher)
			if err != nil {
				return err
			}
			return runServers(srv)
		},
	}
}

func bridgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bridge",
		Short: "Run the bridge worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			srv, err := server.NewBridge(cfg)
			if err != nil {
				return err
			}
			return runServers(srv)
		},
	}
}

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run the gateway and the bridge in one process",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			bridge, err := server.NewBridge(cfg)
			if err != nil {
				return err
			}
			gateway, _, err := server.NewGateway(cfg, inProcess{})
			if err != nil {
				return err
			}
			return runServers(bridge, gateway)
		},
	}
}

// inProcess stands in for the launcher when the bridge shares the gateway's
// process. The bridge is already starting, so a launch only waits for it.
type inProcess struct{}

func (inProcess) Launch() (int, error) { return os.Getpid(), nil }

// workerLauncher defaults the worker command to this binary's bridge
// subcommand with the same config file.
func workerLauncher(cfg *config.Config) (*supervisor.ExecLauncher, error) {
	command := cfg.WorkerCommand
	if len(command) == 0 {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate executable: %w", err)
		}
		command = []string{exe, "bridge"}
		if configPath != "" {
			command = append(command, "--config", configPath)
		}
	}
	return &supervisor.ExecLauncher{Command: command, LogFile: cfg.WorkerLogFile}, nil
}

// runServers blocks until SIGINT/SIGTERM or until any server fails.
func runServers(servers ...*server.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error {
			if err := s.Run(ctx); err != nil {
				return fmt.Errorf("%s: %w", s.Addr(), err)
			}
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		log.Error().Err(err).Msg("server stopped")
	} else {
		log.Info().Msg("server stopped")
	}
	return err
}
