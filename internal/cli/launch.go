package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/pkg/model"
)

// NewLaunchCmd creates the launch command.
func NewLaunchCmd() *cobra.Command {
	var (
		clearCache bool
		wait       bool
	)

	cmd := &cobra.Command{
		Use:   "launch GAME",
		Short: "Start a game client",
		Long: `Start the client recorded for GAME as a detached process.

The client keeps running after relictum exits. With --wait relictum stays
until the client closes and reports its exit code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd, args[0], clearCache, wait)
		},
	}

	cmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Remove the client's WDB and Cache folders first")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the client to exit")

	return cmd
}

func runLaunch(cmd *cobra.Command, gameID string, clearCache, wait bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l, err := loadLauncher(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	if result := l.VerifyIntegrity(cmd.Context()); result.Status == model.IntegrityDanger {
		fmt.Printf("Warning: %s\n", result.Message)
	}

	session, res := l.LaunchGame(cmd.Context(), gameID, clearCache)
	if err := printResult(cfg, res); err != nil || !wait {
		return err
	}

	select {
	case <-session.Done():
		exit := session.Wait()
		if exit.Err != nil {
			return exit.Err
		}
		fmt.Printf("Game closed with exit code %d\n", exit.Code)
	case <-cmd.Context().Done():
		fmt.Println("Stopped waiting; the game keeps running")
	}
	return nil
}
