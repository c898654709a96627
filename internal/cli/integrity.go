package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/pkg/config"
	"github.com/glorpus-work/relictum/pkg/launcher"
)

// NewIntegrityCmd creates the integrity command.
func NewIntegrityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrity",
		Short: "Verify this relictum build",
		Long: `Hash the running build and compare it with the published trust table.

The result is one of secure, warning, danger or unverified. It is advisory
and never blocks other commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
				result := l.VerifyIntegrity(cmd.Context())
				if jsonOutput(cfg) {
					return printJSON(result)
				}
				fmt.Printf("Status: %s\n", result.Status)
				fmt.Printf("Message: %s\n", result.Message)
				if result.LocalHash != "" {
					fmt.Printf("Local hash: %s\n", result.LocalHash)
				}
				if result.RemoteHash != "" {
					fmt.Printf("Published hash: %s\n", result.RemoteHash)
				}
				return nil
			})
		},
	}

	return cmd
}
