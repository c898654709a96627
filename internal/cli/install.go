package cli

import (
	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/pkg/launcher"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		checksum       string
		skipExtraction bool
	)

	cmd := &cobra.Command{
		Use:   "install GAME SOURCE DEST",
		Short: "Install a game client",
		Long: `Install a game client from an archive into DEST.

SOURCE is a .zip or .rar archive, a directory holding one, or an http(s)
URL that is downloaded into the cache first. The archive is removed after a
successful extraction and the game executable is located automatically.
The library gains an entry only when GAME has none yet.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args[0], args[1], args[2], launcher.InstallOptions{
				Checksum:       checksum,
				SkipExtraction: skipExtraction,
			})
		},
	}

	cmd.Flags().StringVar(&checksum, "sha256", "", "Expected SHA-256 of a downloaded archive")
	cmd.Flags().BoolVar(&skipExtraction, "skip-extraction", false, "Treat SOURCE as already extracted content")

	cmd.Example = `  # Install from a local archive
  relictum install wotlk ~/Downloads/wotlk.zip ~/Games

  # Download and install
  relictum install classic https://example.org/classic.zip ~/Games --sha256 <hex>`

	return cmd
}

func runInstall(cmd *cobra.Command, gameID, source, dest string, opts launcher.InstallOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l, err := loadLauncher(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	return printResult(cfg, l.InstallGame(cmd.Context(), gameID, source, dest, opts))
}
