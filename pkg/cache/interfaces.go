package cache

import "time"

// Manager defines the interface for launcher cache management operations.
type Manager interface {
	Clean(options CleanOptions) (*CleanResult, error)
	GetInfo() (*Info, error)
	GetDirectory() string
	SetDirectory(dir string) error
	DownloadDir() string
	AddonDir() string
}

// CleanOptions specifies what to clean from the cache.
type CleanOptions struct {
	All       bool
	Downloads bool
	Addons    bool
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	TotalFreed    int64
	DownloadFreed int64
	AddonFreed    int64
}

// Info represents cache information.
type Info struct {
	Directory     string
	TotalSize     int64
	DownloadSize  int64
	DownloadFiles int
	AddonSize     int64
	AddonFiles    int
	LastModified  time.Time
}

// GameResult reports a game cache clear.
type GameResult struct {
	Cleared bool
	Freed   int64
	Removed []string
}
