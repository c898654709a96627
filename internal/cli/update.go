package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/pkg/config"
	"github.com/glorpus-work/relictum/pkg/launcher"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for a newer relictum release",
		Long: `Compare the running version with the latest GitHub release of the
configured repository (update.repository).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
				release, err := l.CheckUpdate(cmd.Context())
				if err != nil {
					return fmt.Errorf("update check failed: %w", err)
				}
				if jsonOutput(cfg) {
					return printJSON(release)
				}
				if !release.Available {
					fmt.Printf("relictum %s is up to date\n", release.Current)
					return nil
				}
				fmt.Printf("relictum %s is available (running %s)\n", release.Latest, release.Current)
				if release.URL != "" {
					fmt.Printf("Download: %s\n", release.URL)
				}
				return nil
			})
		},
	}

	return cmd
}
