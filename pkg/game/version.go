// Package game inspects installed game clients.
package game

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/archive"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	"github.com/glorpus-work/relictum/pkg/platform"
)

// VersionDetector reads the product version embedded in a Windows executable.
type VersionDetector struct {
	OS     string
	Runner archive.Runner
	Binary string
}

// NewVersionDetector creates a detector for the host OS.
func NewVersionDetector() *VersionDetector {
	return &VersionDetector{OS: runtime.GOOS, Runner: archive.ExecRunner{}}
}

// Detect returns the ProductVersion of exePath. It fails with
// ErrVersionUnavailable off Windows.
func (d *VersionDetector) Detect(exePath string) (string, error) {
	if d.OS != platform.OSWindows {
		return "", errors.ErrVersionUnavailable
	}
	if !fsutil.IsFile(exePath) {
		return "", fmt.Errorf("%s: %w", exePath, errors.ErrExecutableNotFound)
	}

	binary := d.Binary
	if binary == "" {
		binary = "powershell.exe"
	}
	script := "(Get-Item -LiteralPath " + archive.PSQuote(exePath) + ").VersionInfo.ProductVersion"
	out, err := d.Runner.Run(binary, "-NoProfile", "-NonInteractive", "-Command", script)
	if err != nil {
		logger.Debug("PowerShell version check failed", logger.Fields{"path": exePath, "error": err})
		return "", fmt.Errorf("failed to read version of %s: %w", exePath, err)
	}
	return strings.TrimSpace(string(out)), nil
}
