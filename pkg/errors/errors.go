// Package errors holds the sentinel errors shared across relictum packages.
// Callers match them with errors.Is; context is attached with Wrap/Wrapf or %w.
package errors

import (
	"errors"
	"fmt"
)

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to replace config file")
	ErrConfigFileExists  = fmt.Errorf("config file already exists")
	ErrConfigEnv         = fmt.Errorf("failed to apply environment overrides")
	ErrUnknownConfigKey  = fmt.Errorf("unknown configuration key")

	// Filesystem errors.
	ErrInvalidPath = fmt.Errorf("invalid path")

	// Archive and install errors.
	ErrArchiveNotFound    = fmt.Errorf("no supported archive found")
	ErrExtractionFailed   = fmt.Errorf("archive extraction failed")
	ErrExecutableNotFound = fmt.Errorf("game executable not found")
	ErrInstallInProgress  = fmt.Errorf("an install is already running for this destination")

	// Network errors.
	ErrNetworkTimeout      = fmt.Errorf("network request timed out")
	ErrNetworkFailure      = fmt.Errorf("network request failed")
	ErrDownloadFailed      = fmt.Errorf("download failed")
	ErrNoDownloadLinkFound = fmt.Errorf("no download link found for this addon")
	ErrFileHashMismatch    = fmt.Errorf("file hash mismatch")
	ErrResponseTooLarge    = fmt.Errorf("response body too large")

	// Runtime errors.
	ErrProcessSpawn       = fmt.Errorf("failed to start game process")
	ErrGameRunning        = fmt.Errorf("game client is running")
	ErrIntegrityMismatch  = fmt.Errorf("integrity mismatch")
	ErrGameNotFound       = fmt.Errorf("unknown game")
	ErrGameNotInLibrary   = fmt.Errorf("game has no install path in the library")
	ErrRealmlistNotFound  = fmt.Errorf("realmlist.wtf not found")
	ErrVersionUnavailable = fmt.Errorf("game version detection is not available on this platform")
	ErrOperationFailed    = fmt.Errorf("operation failed")

	// Cache errors.
	ErrCacheClean     = fmt.Errorf("failed to clean cache")
	ErrCacheInfo      = fmt.Errorf("failed to get cache info")
	ErrCacheDirectory = fmt.Errorf("cache directory cannot be empty")

	// Hook errors.
	ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// ExtractionError carries the details of a failed extraction strategy.
type ExtractionError struct {
	Archive  string
	Strategy string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("%s: %s via %s", ErrExtractionFailed, e.Archive, e.Strategy)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExtractionFailed}
	}
	return []error{ErrExtractionFailed, e.Err}
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// Join wraps errors.Join so callers only import one errors package.
func Join(errs ...error) error { return errors.Join(errs...) }

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
