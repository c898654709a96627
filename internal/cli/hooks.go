package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	"github.com/glorpus-work/relictum/pkg/hooks"
)

// NewHooksCmd creates the hooks command with subcommands.
func NewHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage hook scripts",
		Long: `Hook scripts are Tengo programs run at fixed points: pre-launch,
post-install and post-addon-install. They are loaded from the hooks
directory as <hook-type>.tengo, or from the paths under hooks.* in the config.`,
	}

	cmd.AddCommand(newHooksGenerateCmd(), newHooksDirCmd())
	return cmd
}

func newHooksGenerateCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "generate HOOK-TYPE",
		Short: "Write a starter script into the hooks directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hookType := hooks.HookType(args[0])
			if !hookType.IsValid() {
				return hooks.ErrUnsupportedHookType(hookType)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.GetHooksDir()
			target := filepath.Join(dir, string(hookType)+hooks.ScriptExtension)
			if fsutil.IsFile(target) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite): %w", target, errors.ErrConfigFileExists)
			}

			if err := fsutil.EnsureDir(dir); err != nil {
				return fmt.Errorf("failed to create hooks directory: %w", err)
			}
			if err := os.WriteFile(target, []byte(hooks.HookTemplate(hookType)+"\n"), fsutil.FileModeDefault); err != nil {
				return fmt.Errorf("failed to write hook script: %w", err)
			}

			logger.Success("Hook script created", logger.Fields{"path": target})
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing script")

	cmd.Example = `  # Abort launches while offline
  relictum hooks generate pre-launch`

	return cmd
}

func newHooksDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Show the hooks directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.GetHooksDir())
			return nil
		},
	}
}
