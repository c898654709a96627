package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/config"
	"github.com/glorpus-work/relictum/pkg/launcher"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage caches",
		Long:  "Clean and inspect the relictum download cache and the game client caches",
	}

	cmd.AddCommand(
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
		newCacheClearGameCmd(),
	)

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var (
		all       bool
		downloads bool
		addons    bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the download cache",
		Long:  "Remove cached game archives and add-on packages to free up disk space",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCacheClean(all, downloads, addons)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Clean all cached files")
	cmd.Flags().BoolVar(&downloads, "downloads", false, "Clean only downloaded game archives")
	cmd.Flags().BoolVar(&addons, "addons", false, "Clean only staged add-on packages")

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Long:  "Display information about the download cache",
		RunE:  runCacheInfo,
	}

	return cmd
}

func newCacheDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Long:  "Display the path to the cache directory",
		RunE:  runCacheDir,
	}

	return cmd
}

func newCacheClearGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-game GAME",
		Short: "Clear a game client's cache",
		Long:  "Remove the WDB and Cache folders next to GAME's executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
				return printResult(cfg, l.ClearGameCache(args[0]))
			})
		},
	}

	return cmd
}

func runCacheClean(all, downloads, addons bool) error {
	return withLauncher(func(_ *config.Config, l *launcher.Launcher) error {
		msg, err := l.Cache().Clean(all, downloads, addons)
		if err != nil {
			return err
		}
		logger.Success("Cache cleaning completed", logger.Fields{"dir": l.Cache().GetDirectory()})
		fmt.Println(msg)
		return nil
	})
}

func runCacheInfo(*cobra.Command, []string) error {
	return withLauncher(func(_ *config.Config, l *launcher.Launcher) error {
		info, err := l.Cache().GetInfo()
		if err != nil {
			return err
		}
		fmt.Println(info)
		return nil
	})
}

func runCacheDir(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println(cfg.GetCacheDir())
	return nil
}
