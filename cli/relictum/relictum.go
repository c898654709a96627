package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/internal/cli"
	"github.com/glorpus-work/relictum/internal/logger"
)

var (
	configPath   string
	verbose      bool
	noColor      bool
	outputFormat string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = logger.Close()
		cancel()
		os.Exit(1)
	}

	_ = logger.Close()
	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relictum",
		Short: "A launcher for legacy game clients",
		Long: `relictum installs, launches and maintains legacy game clients:
- Games: install from archives, locate existing installs, launch detached
- Add-ons: browse the catalog, install, list and remove
- Upkeep: client cache, realmlist, integrity and update checks`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (text, json)")

	// Set up CLI package variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.NoColor = &noColor
	cli.OutputFormat = &outputFormat

	// Add subcommands
	cmd.AddCommand(
		cli.NewInstallCmd(),
		cli.NewLibraryCmd(),
		cli.NewLaunchCmd(),
		cli.NewAddonCmd(),
		cli.NewRealmlistCmd(),
		cli.NewCacheCmd(),
		cli.NewIntegrityCmd(),
		cli.NewUpdateCmd(),
		cli.NewPingCmd(),
		cli.NewHooksCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
