package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/pkg/config"
	"github.com/glorpus-work/relictum/pkg/launcher"
	"github.com/glorpus-work/relictum/pkg/model"
)

// NewLibraryCmd creates the library command with subcommands.
func NewLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"games"},
		Short:   "Manage installed game clients",
		Long:    "List, locate, move and forget the game clients relictum knows about",
	}

	cmd.AddCommand(
		newLibraryListCmd(),
		newLibraryLocateCmd(),
		newLibraryForgetCmd(),
		newLibraryMoveCmd(),
	)

	return cmd
}

func newLibraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List game clients",
		Long: `List every supported game and where it is installed.

Games without a library entry are shown as "not installed".`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runLibraryList()
		},
	}
}

func newLibraryLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate GAME PATH",
		Short: "Point a game at an existing install",
		Long: `Record PATH as the install of GAME, replacing any previous entry.
PATH may be the game executable or its folder.`,
		Args: cobra.ExactArgs(setCommandArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			return runLibraryLocate(args[0], args[1])
		},
	}
}

func newLibraryForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget GAME",
		Short: "Remove a game from the library",
		Long:  "Remove GAME from the library. Files on disk are left alone.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runLibraryForget(args[0])
		},
	}
}

func runLibraryList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l, err := loadLauncher(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	entries := l.ListGames()
	if jsonOutput(cfg) {
		return printJSON(entries)
	}

	byID := make(map[string]model.LibraryEntry, len(entries))
	for _, e := range entries {
		byID[e.GameID] = e
	}

	tabWriter := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "GAME\tNAME\tVERSION\tPATH")
	for _, g := range model.Games() {
		e, ok := byID[g.ID]
		if !ok {
			_, _ = fmt.Fprintf(tabWriter, "%s\t%s\t-\tnot installed\n", g.ID, g.Name)
			continue
		}
		version := e.DetectedVersion
		if version == "" {
			version = "-"
		}
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\t%s\t%s\n", g.ID, g.Name, version, e.InstallPath)
	}
	return tabWriter.Flush()
}

func newLibraryMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move GAME DIR",
		Short: "Move a game folder",
		Long: `Move the folder holding GAME into DIR, which may be on another drive,
and update the library. The game must not be running.`,
		Args: cobra.ExactArgs(setCommandArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
				return printResult(cfg, l.MoveGame(args[0], args[1]))
			})
		},
	}
}

func runLibraryLocate(gameID, path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l, err := loadLauncher(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	return printResult(cfg, l.LocateGame(gameID, path))
}

func runLibraryForget(gameID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l, err := loadLauncher(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	return printResult(cfg, l.ForgetGame(gameID))
}
