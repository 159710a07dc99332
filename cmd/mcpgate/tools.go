package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcpgate/mcpgate/internal/agent"
	"github.com/mcpgate/mcpgate/internal/handler"
	"github.com/mcpgate/mcpgate/internal/tools"
)

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List registered tools",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARAMETERS\tDESCRIPTION")
			for _, s := range tools.Specs() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, strings.Join(s.Params, ","), s.Description)
			}
			w.Flush()
		},
	}
}

func callCmd() *cobra.Command {
	var gatewayURL string
	cmd := &cobra.Command{
		Use:   "call <tool> [key=value ...]",
		Short: "Invoke a tool through a running gateway",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kv := make(map[string]string, len(args)-1)
			for _, a := range args[1:] {
				k, v, ok := strings.Cut(a, "=")
				if !ok {
					return fmt.Errorf("argument %q is not key=value", a)
				}
				kv[k] = v
			}
			body, err := handler.EncodeDispatch(args[0], kv)
			if err != nil {
				return err
			}

			base, err := resolveGateway(gatewayURL)
			if err != nil {
				return err
			}
			client := &http.Client{Timeout: 5 * time.Minute}
			resp, err := client.Post(base+"/dispatch", "application/json", bytes.NewReader(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			out, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(out)))
			if resp.StatusCode >= 400 {
				return fmt.Errorf("gateway returned %s", resp.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&gatewayURL, "gateway", "", "gateway base URL (default from config host and port)")
	return cmd
}

func replCmd() *cobra.Command {
	var gatewayURL string
	cmd := &cobra.Command{
		Use:     "repl",
		Aliases: []string{"chat"},
		Short:   "Interactive session against a running gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveGateway(gatewayURL)
			if err != nil {
				return err
			}
			client := &http.Client{Timeout: 5 * time.Minute}
			return agent.NewSession(base, client, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}
	cmd.Flags().StringVar(&gatewayURL, "gateway", "", "gateway base URL (default from config host and port)")
	return cmd
}

func resolveGateway(flag string) (string, error) {
	if flag != "" {
		return strings.TrimRight(flag, "/"), nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.GatewayURL(), nil
}
