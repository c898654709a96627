package archive

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/platform"
)

// sevenZipBinaries are looked up on PATH in order when no binary is configured.
var sevenZipBinaries = []string{"7z", "7za", "7zz"}

// windowsSevenZipPaths are the default install locations checked on Windows.
var windowsSevenZipPaths = []string{
	`C:\Program Files\7-Zip\7z.exe`,
	`C:\Program Files (x86)\7-Zip\7z.exe`,
}

type strategyRule struct {
	kind  Kind
	os    string
	build func(s *Selector) Strategy
}

// strategyTable is matched top to bottom; the first rule whose kind and OS
// match the request wins.
var strategyTable = []strategyRule{
	{kind: KindZip, os: platform.OSWindows, build: (*Selector).powerShell},
	{kind: KindZip, os: platform.AnyOS, build: (*Selector).inProcess},
	{kind: KindRar, os: platform.AnyOS, build: (*Selector).sevenZip},
}

// Selector maps (archive kind, host OS) to an extraction Strategy.
type Selector struct {
	// OS is the host platform; empty means the running OS.
	OS string
	// SevenZipPath overrides the 7-Zip binary lookup.
	SevenZipPath string
	// LookPath resolves binaries on PATH.
	LookPath func(file string) (string, error)
	// Runner executes external tools.
	Runner Runner
}

// NewSelector creates a Selector for the running host.
func NewSelector(sevenZipPath string) *Selector {
	return &Selector{
		OS:           platform.Current(),
		SevenZipPath: sevenZipPath,
		LookPath:     exec.LookPath,
		Runner:       ExecRunner{},
	}
}

// StrategyFor returns the strategy for kind on the selector's host.
func (s *Selector) StrategyFor(kind Kind) Strategy {
	host := s.OS
	if host == "" {
		host = platform.Current()
	}
	for _, rule := range strategyTable {
		if rule.kind == kind && platform.Matches(rule.os, host) {
			return rule.build(s)
		}
	}
	return s.inProcess()
}

func (s *Selector) inProcess() Strategy {
	return NewInProcessStrategy()
}

func (s *Selector) powerShell() Strategy {
	return &PowerShellStrategy{Runner: s.runner()}
}

// sevenZip falls back to the in-process reader when no 7-Zip binary exists.
func (s *Selector) sevenZip() Strategy {
	if bin := s.findSevenZip(); bin != "" {
		return &SevenZipStrategy{Runner: s.runner(), Binary: bin}
	}
	logger.Debug("No 7-Zip binary found, using in-process rar reader")
	return s.inProcess()
}

func (s *Selector) findSevenZip() string {
	if s.SevenZipPath != "" {
		return s.SevenZipPath
	}
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, name := range sevenZipBinaries {
		if path, err := lookPath(name); err == nil {
			return path
		}
	}
	if platform.IsWindows(s.OS) {
		for _, path := range windowsSevenZipPaths {
			if _, err := os.Stat(filepath.Clean(path)); err == nil {
				return path
			}
		}
	}
	return ""
}

func (s *Selector) runner() Runner {
	if s.Runner == nil {
		return ExecRunner{}
	}
	return s.Runner
}
