package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/pkg/config"
	"github.com/glorpus-work/relictum/pkg/launcher"
	"github.com/glorpus-work/relictum/pkg/model"
)

// NewAddonCmd creates the addon command with subcommands.
func NewAddonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addon",
		Aliases: []string{"addons"},
		Short:   "Manage game add-ons",
		Long:    "List, browse, install and remove the add-ons of an installed game",
	}

	cmd.AddCommand(
		newAddonListCmd(),
		newAddonBrowseCmd(),
		newAddonInstallCmd(),
		newAddonInstallLocalCmd(),
		newAddonUninstallCmd(),
		newAddonWatchCmd(),
	)

	return cmd
}

func newAddonListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list GAME",
		Short: "List installed add-ons",
		Long: `List the add-ons in GAME's Interface/AddOns folder.

Modules that belong to a larger add-on are shown under it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runAddonList(args[0])
		},
	}
}

func newAddonInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install GAME URL...",
		Short: "Install add-ons from the catalog",
		Long: `Install one or more add-ons into GAME.

Each URL is either a catalog detail page, whose download link for GAME is
resolved first, or a direct .zip link. Several URLs are downloaded in
parallel and reported one by one.`,
		Args: cobra.MinimumNArgs(setCommandArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
				if len(args) == setCommandArgs {
					return printResult(cfg, l.InstallAddon(cmd.Context(), args[0], args[1]))
				}
				return printResult(cfg, l.InstallAddons(cmd.Context(), args[0], args[1:]))
			})
		},
	}
}

func newAddonInstallLocalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install-local GAME ARCHIVE",
		Short: "Install an add-on from a local archive",
		Long:  "Unpack ARCHIVE into GAME's add-on folder. The archive is kept.",
		Args:  cobra.ExactArgs(setCommandArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
				return printResult(cfg, l.InstallLocalAddon(cmd.Context(), args[0], args[1]))
			})
		},
	}
}

func newAddonUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall GAME FOLDER...",
		Short: "Remove add-on folders",
		Long: `Remove one or more add-on folders from GAME.

Each FOLDER is removed independently; failures are reported per folder.`,
		Args: cobra.MinimumNArgs(setCommandArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
				return printResult(cfg, l.UninstallAddons(args[0], args[1:]))
			})
		},
	}
}

func newAddonWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch GAME",
		Short: "Print the add-on list whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLauncher(func(_ *config.Config, l *launcher.Launcher) error {
				return runAddonWatch(cmd.Context(), l, args[0])
			})
		},
	}
}

func runAddonList(gameID string) error {
	return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
		records, err := l.ListAddons(gameID)
		if err != nil {
			return err
		}
		if jsonOutput(cfg) {
			return printJSON(records)
		}
		if len(records) == 0 {
			fmt.Println("No addons installed")
			return nil
		}
		return printAddons(records)
	})
}

func runAddonWatch(ctx context.Context, l *launcher.Launcher, gameID string) error {
	m, err := l.Addons(gameID)
	if err != nil {
		return err
	}
	updates, err := m.Watch(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Watching %s (Ctrl+C to stop)\n", m.Dir())
	for records := range updates {
		fmt.Println(strings.Repeat("-", 60))
		if err := printAddons(records); err != nil {
			return err
		}
	}
	return nil
}

func printAddons(records []model.AddonRecord) error {
	tabWriter := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "FOLDER\tTITLE\tVERSION\tAUTHOR")
	for _, r := range records {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\t%s\t%s\n", r.FolderName, r.Title, r.Version, r.Author)
		for _, m := range r.Modules {
			_, _ = fmt.Fprintf(tabWriter, "  %s\t%s\t%s\t%s\n", m.FolderName, m.Title, m.Version, m.Author)
		}
	}
	return tabWriter.Flush()
}
