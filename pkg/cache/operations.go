package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/glorpus-work/relictum/internal/logger"
)

// Operation renders cache manager results for the CLI.
type Operation struct {
	manager Manager
}

// NewOperation creates a new cache operation instance.
func NewOperation(manager Manager) *Operation {
	return &Operation{
		manager: manager,
	}
}

// Clean cleans the cache based on the provided options.
func (op *Operation) Clean(all, downloads, addons bool) (string, error) {
	options := CleanOptions{
		All:       all,
		Downloads: downloads,
		Addons:    addons,
	}

	logger.Debug("Cleaning cache", logger.Fields{
		"all":       options.All,
		"downloads": options.Downloads,
		"addons":    options.Addons,
	})

	result, err := op.manager.Clean(options)
	if err != nil {
		return "", err
	}

	if result.TotalFreed == 0 {
		return "No files were removed from the cache.", nil
	}
	msg := fmt.Sprintf("Successfully cleaned cache. Freed %s of disk space.", FormatBytes(result.TotalFreed))
	if result.DownloadFreed > 0 {
		msg += fmt.Sprintf("\n- Downloads: %s", FormatBytes(result.DownloadFreed))
	}
	if result.AddonFreed > 0 {
		msg += fmt.Sprintf("\n- Addons: %s", FormatBytes(result.AddonFreed))
	}
	return msg, nil
}

// GetInfo returns information about the cache.
func (op *Operation) GetInfo() (string, error) {
	info, err := op.manager.GetInfo()
	if err != nil {
		return "", err
	}

	lastModified := "never"
	if !info.LastModified.IsZero() {
		lastModified = info.LastModified.Format(time.RFC1123)
	}

	return fmt.Sprintf(`Cache Information:
  Directory:     %s
  Total Size:    %s
  Downloads:     %s (%d files)
  Addons:        %s (%d files)
  Last Modified: %s`,
		info.Directory,
		FormatBytes(info.TotalSize),
		FormatBytes(info.DownloadSize),
		info.DownloadFiles,
		FormatBytes(info.AddonSize),
		info.AddonFiles,
		lastModified,
	), nil
}

// GetDirectory returns the cache directory path.
func (op *Operation) GetDirectory() string {
	return op.manager.GetDirectory()
}

// ClearGame clears the client cache of gameDir and describes the outcome.
func (op *Operation) ClearGame(gameDir string) (string, error) {
	result, err := ClearGame(gameDir)
	if err != nil {
		return "", err
	}
	if !result.Cleared {
		return "Game cache is already empty.", nil
	}
	return fmt.Sprintf("Cleared %s (%s).", strings.Join(result.Removed, ", "), FormatBytes(result.Freed)), nil
}

// FormatBytes converts bytes to a human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"K", "M", "G", "T", "P", "E"}
	if exp < len(units) {
		return fmt.Sprintf("%.1f %sB", float64(bytes)/float64(div), units[exp])
	}
	return fmt.Sprintf("%d B", bytes)
}
