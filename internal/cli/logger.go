package cli

import (
	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/config"
)

// initLogging points the global logger at the configured level, format and
// optional rotating log file.
func initLogging(cfg *config.Config) {
	format := logger.FormatText
	if jsonOutput(cfg) {
		format = logger.FormatJSON
	}
	logger.InitLoggerWithFile(cfg.Settings.LogLevel, format, logger.FileOptions{
		Path:       cfg.GetLogPath(),
		MaxSizeMB:  cfg.Settings.LogMaxSizeMB,
		MaxBackups: cfg.Settings.LogMaxBackups,
	})
}
