// Package cache manages two kinds of cache: the launcher's own download and
// add-on staging directories, and the WDB/Cache folders a game client keeps
// next to its executable.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
)

// DefaultManager implements the Manager interface for cache operations.
type DefaultManager struct {
	directory string
}

// NewManager creates a new cache manager.
func NewManager(directory string) *DefaultManager {
	return &DefaultManager{
		directory: directory,
	}
}

// NewDefaultManager creates a new cache manager with default directory.
func NewDefaultManager() (*DefaultManager, error) {
	cacheDir, err := fsutil.GetCacheDir()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get user cache directory")
	}

	if err := os.MkdirAll(cacheDir, CacheDirPerm); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache directory")
	}

	return NewManager(cacheDir), nil
}

// DownloadDir is where game archives are downloaded.
func (cm *DefaultManager) DownloadDir() string {
	return filepath.Join(cm.directory, DownloadsDir)
}

// AddonDir is where add-on packages are staged before extraction.
func (cm *DefaultManager) AddonDir() string {
	return filepath.Join(cm.directory, AddonsDir)
}

// Clean removes cached files according to the specified options.
func (cm *DefaultManager) Clean(options CleanOptions) (*CleanResult, error) {
	result := &CleanResult{}

	// Default to cleaning all if no specific flags are set
	if !options.Downloads && !options.Addons {
		options.All = true
	}

	if options.All || options.Downloads {
		size, err := cleanDirectory(cm.DownloadDir())
		if err != nil {
			return nil, fmt.Errorf("%w: downloads: %w", errors.ErrCacheClean, err)
		}
		result.DownloadFreed = size
		result.TotalFreed += size
	}

	if options.All || options.Addons {
		size, err := cleanDirectory(cm.AddonDir())
		if err != nil {
			return nil, fmt.Errorf("%w: addons: %w", errors.ErrCacheClean, err)
		}
		result.AddonFreed = size
		result.TotalFreed += size
	}

	logger.Debug("Cache cleaned", logger.Fields{"freed": result.TotalFreed, "dir": cm.directory})
	return result, nil
}

// GetInfo returns information about the cache.
func (cm *DefaultManager) GetInfo() (*Info, error) {
	info := &Info{Directory: cm.directory}

	dlSize, dlFiles, dlMod, err := getDirStats(cm.DownloadDir())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCacheInfo, err)
	}
	info.DownloadSize = dlSize
	info.DownloadFiles = dlFiles

	addonSize, addonFiles, addonMod, err := getDirStats(cm.AddonDir())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCacheInfo, err)
	}
	info.AddonSize = addonSize
	info.AddonFiles = addonFiles

	info.TotalSize = info.DownloadSize + info.AddonSize
	info.LastModified = dlMod
	if addonMod.After(dlMod) {
		info.LastModified = addonMod
	}
	return info, nil
}

// GetDirectory returns the cache directory path.
func (cm *DefaultManager) GetDirectory() string {
	return cm.directory
}

// SetDirectory sets the cache directory path.
func (cm *DefaultManager) SetDirectory(dir string) error {
	if dir == "" {
		return errors.ErrCacheDirectory
	}
	cm.directory = dir
	return nil
}

// ClearGame removes the client cache folders under gameDir. Missing folders
// are not an error; Cleared reports whether anything was removed.
func ClearGame(gameDir string) (GameResult, error) {
	var result GameResult
	if !fsutil.IsDir(gameDir) {
		return result, fmt.Errorf("%s: %w", gameDir, errors.ErrInvalidPath)
	}
	for _, name := range GameCacheDirs {
		dir := filepath.Join(gameDir, name)
		if !fsutil.IsDir(dir) {
			continue
		}
		size, _, _, err := getDirStats(dir)
		if err != nil {
			return result, fmt.Errorf("%w: %w", errors.ErrCacheClean, err)
		}
		logger.Info("Clearing game cache", logger.Fields{"path": dir})
		if err := os.RemoveAll(dir); err != nil {
			return result, fmt.Errorf("%w: %s: %w", errors.ErrCacheClean, dir, err)
		}
		result.Cleared = true
		result.Freed += size
		result.Removed = append(result.Removed, name)
	}
	return result, nil
}

// cleanDirectory removes a directory and returns bytes freed.
func cleanDirectory(dir string) (int64, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	totalSize, _, _, err := getDirStats(dir)
	if err != nil {
		return 0, err
	}

	if err := os.RemoveAll(dir); err != nil {
		return 0, errors.Wrapf(err, "failed to remove directory %s", dir)
	}

	// Recreate empty directory with cache-specific permissions
	if err := os.MkdirAll(dir, CacheDirPerm); err != nil {
		return totalSize, errors.Wrapf(err, "failed to recreate directory %s", dir)
	}

	return totalSize, nil
}

// getDirStats walks dir and returns the total file size, the file count and
// the newest modification time. A missing dir yields zeros.
func getDirStats(dir string) (size int64, count int, newest time.Time, err error) {
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		return 0, 0, time.Time{}, nil
	}

	err = filepath.Walk(dir, func(_ string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		size += info.Size()
		count++
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return size, count, newest, err
}
