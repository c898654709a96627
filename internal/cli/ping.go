package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/pkg/config"
	"github.com/glorpus-work/relictum/pkg/latency"
	"github.com/glorpus-work/relictum/pkg/launcher"
)

// NewPingCmd creates the ping command.
func NewPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Measure latency to the login server",
		Long:  "Open a TCP connection to latency.address and report how long it took",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
				ms := l.Ping(cmd.Context())
				if jsonOutput(cfg) {
					return printJSON(map[string]any{"address": cfg.Latency.Address, "latency_ms": ms})
				}
				if ms == latency.Unreachable {
					fmt.Printf("%s is unreachable\n", cfg.Latency.Address)
					return nil
				}
				fmt.Printf("%s: %d ms\n", cfg.Latency.Address, ms)
				return nil
			})
		},
	}

	return cmd
}
