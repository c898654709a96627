package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build information, overridden with -ldflags "-X" for release builds.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// packaged is "true" in release builds; it enables the integrity check.
	packaged = "false"
)

// Packaged reports whether this is a release build.
func Packaged() bool { return packaged == "true" }

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version information for relictum",
		Run:   runVersion,
	}

	return cmd
}

func runVersion(*cobra.Command, []string) {
	fmt.Printf("relictum version %s\n", Version)
	fmt.Printf("Build date: %s\n", BuildDate)
	fmt.Printf("Git commit: %s\n", GitCommit)
	if !Packaged() {
		fmt.Println("Development build")
	}
}
