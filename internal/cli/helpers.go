package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/config"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/installer"
	"github.com/glorpus-work/relictum/pkg/launcher"
	"github.com/glorpus-work/relictum/pkg/model"
	"github.com/glorpus-work/relictum/pkg/supervisor"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
)

// loadConfig loads the configuration from --config or the default location
// and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	initLogging(cfg)
	return cfg, nil
}

// loadLauncher builds the service object. Install progress and game session
// events are printed as they happen.
func loadLauncher(cfg *config.Config) (*launcher.Launcher, error) {
	return launcher.New(cfg, launcher.Options{
		Version:  Version,
		Packaged: Packaged(),
		OnInstallEvent: func(e installer.Event) {
			if e.ID != "" {
				fmt.Printf("%s: %s (%s)\n", e.Phase, e.Msg, e.ID)
			} else {
				fmt.Printf("%s: %s\n", e.Phase, e.Msg)
			}
		},
		OnProcessEvent: func(e supervisor.Event) {
			logger.Debug("Game session event", logger.Fields{
				"type":    e.Type,
				"session": e.SessionID,
				"pid":     e.PID,
				"exit":    e.ExitCode,
				"message": e.Message,
			})
		},
	})
}

// withLauncher loads the config, builds a Launcher, runs fn and closes it.
func withLauncher(fn func(cfg *config.Config, l *launcher.Launcher) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l, err := loadLauncher(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()
	return fn(cfg, l)
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		// If we can't get the default path, use an empty string which will cause a more descriptive error later
		// when the config file is actually being read/written
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}

func jsonOutput(cfg *config.Config) bool {
	return cfg.Settings.OutputFormat == string(logger.FormatJSON)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult renders an OperationResult and turns a failure into an error
// so the process exits non-zero.
func printResult(cfg *config.Config, res model.OperationResult) error {
	if jsonOutput(cfg) {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		fmt.Println(res.Message)
		for _, item := range res.Failures() {
			fmt.Printf("  %s: %s\n", item.Name, item.Error)
		}
	}
	if !res.Success {
		return errors.ErrOperationFailed
	}
	return nil
}
