package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/glorpus-work/relictum/pkg/platform"
)

const (
	// AppName is the name of the application used in paths
	AppName = "relictum"
)

// GetCacheDir returns the platform-specific cache directory for the application
// On Linux: ~/.cache/relictum/
// On macOS: ~/Library/Caches/relictum/
// On Windows: %LOCALAPPDATA%\relictum\
func GetCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, AppName), nil
}

// getAppDataDir returns the platform-specific base data directory
func getAppDataDir() (string, error) {
	switch runtime.GOOS {
	case platform.OSWindows:
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			return "", errors.New("LOCALAPPDATA environment variable not set")
		}
		return localAppData, nil

	case platform.OSDarwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil

	default:
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			return xdgDataHome, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// GetDataDir returns the platform-specific data directory for the application
// On Linux: ~/.local/share/relictum/
// On macOS: ~/Library/Application Support/relictum/
// On Windows: %LOCALAPPDATA%\relictum\
func GetDataDir() (string, error) {
	baseDir, err := getAppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, AppName), nil
}

// GetStateDir returns the directory for the library database.
// Format: <data_dir>/state/
func GetStateDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "state"), nil
}
