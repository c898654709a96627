// Package realmlist reads and writes the realmlist.wtf file that tells the
// client which login server to use.
package realmlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	"github.com/glorpus-work/relictum/pkg/library"
)

// FileName is the realmlist file name.
const FileName = "realmlist.wtf"

// Locations returns the candidate files for gameDir in read order.
func Locations(gameDir string) []string {
	return []string{
		filepath.Join(gameDir, "Data", "enUS", FileName),
		filepath.Join(gameDir, "Data", "enGB", FileName),
		filepath.Join(gameDir, FileName),
	}
}

// Read returns the trimmed content of the first existing realmlist for the
// game at installPath (executable or directory).
func Read(installPath string) (content, path string, err error) {
	if installPath == "" {
		return "", "", fmt.Errorf("missing game path: %w", errors.ErrInvalidPath)
	}
	for _, candidate := range Locations(library.GameDir(installPath)) {
		if !fsutil.IsFile(candidate) {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			return "", candidate, fmt.Errorf("failed to read %s: %w", candidate, err)
		}
		return strings.TrimSpace(string(data)), candidate, nil
	}
	return "", "", errors.ErrRealmlistNotFound
}

// Write stores content in every existing realmlist. When none exists it
// creates one in Data/enUS if that folder exists, else in the game root.
// It returns the files written.
func Write(installPath, content string) ([]string, error) {
	if installPath == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("missing game path or content: %w", errors.ErrInvalidPath)
	}
	gameDir := library.GameDir(installPath)

	written := make([]string, 0, 3)
	var failures []error
	for _, candidate := range Locations(gameDir) {
		if !fsutil.IsFile(candidate) {
			continue
		}
		// Clients often ship the file read-only.
		if err := os.Chmod(candidate, 0o666); err != nil {
			logger.Warn("Could not change realmlist permissions", logger.Fields{"path": candidate, "error": err})
		}
		if err := os.WriteFile(candidate, []byte(content), fsutil.FileModeDefault); err != nil {
			logger.Error("Failed to write realmlist", logger.Fields{"path": candidate, "error": err})
			failures = append(failures, fmt.Errorf("%s: %w", candidate, err))
			continue
		}
		logger.Info("Updated realmlist", logger.Fields{"path": candidate})
		written = append(written, candidate)
	}
	if len(written) > 0 {
		return written, nil
	}

	target := filepath.Join(gameDir, FileName)
	if enUS := filepath.Join(gameDir, "Data", "enUS"); fsutil.IsDir(enUS) {
		target = filepath.Join(enUS, FileName)
	}
	if err := os.WriteFile(target, []byte(content), fsutil.FileModeDefault); err != nil {
		return nil, errors.Join(append(failures, fmt.Errorf("failed to create %s: %w", target, err))...)
	}
	logger.Info("Created realmlist", logger.Fields{"path": target})
	return []string{target}, nil
}

// Directive renders the realmlist line for host.
func Directive(host string) string {
	return "set realmlist " + strings.TrimSpace(host)
}
