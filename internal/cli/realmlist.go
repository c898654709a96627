package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/pkg/config"
	"github.com/glorpus-work/relictum/pkg/launcher"
)

// NewRealmlistCmd creates the realmlist command with subcommands.
func NewRealmlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "realmlist",
		Short: "Read or change a game's realmlist.wtf",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get GAME",
			Short: "Show the realmlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
					content, location, err := l.ReadRealmlist(args[0])
					if err != nil {
						return err
					}
					if jsonOutput(cfg) {
						return printJSON(map[string]string{"path": location, "content": content})
					}
					fmt.Printf("# %s\n%s\n", location, content)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set GAME CONTENT...",
			Short: "Replace the realmlist",
			Long: `Write CONTENT to every realmlist.wtf of GAME, creating one when none exists.
A bare host name is written as "set realmlist <host>".`,
			Args: cobra.MinimumNArgs(setCommandArgs),
			RunE: func(_ *cobra.Command, args []string) error {
				return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
					return printResult(cfg, l.WriteRealmlist(args[0], strings.Join(args[1:], " ")))
				})
			},
		},
	)

	return cmd
}
