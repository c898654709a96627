package archive

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/glorpus-work/relictum/pkg/errors"
)

// maxOutputTail bounds how much tool output is kept on failure.
const maxOutputTail = 512

// ExecRunner runs external tools with os/exec.
type ExecRunner struct{}

// Run executes name with args and returns its combined output. The process is
// not tied to a context: once started, an extraction runs to completion.
func (ExecRunner) Run(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	err := cmd.Run()
	return combined.Bytes(), err
}

// PowerShellStrategy extracts zip archives with the built-in Expand-Archive
// cmdlet on Windows hosts.
type PowerShellStrategy struct {
	Runner Runner
	Binary string
}

// Name implements Strategy.
func (s *PowerShellStrategy) Name() string { return "powershell" }

// Extract implements Strategy.
func (s *PowerShellStrategy) Extract(ctx context.Context, archivePath, destDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	script := "Expand-Archive -LiteralPath " + PSQuote(archivePath) +
		" -DestinationPath " + PSQuote(destDir) + " -Force"
	out, err := s.Runner.Run(s.binary(), "-NoProfile", "-NonInteractive", "-Command", script)
	return commandError(archivePath, s.Name(), out, err)
}

func (s *PowerShellStrategy) binary() string {
	if s.Binary != "" {
		return s.Binary
	}
	return "powershell.exe"
}

// SevenZipStrategy extracts archives with an external 7-Zip binary.
type SevenZipStrategy struct {
	Runner Runner
	Binary string
}

// Name implements Strategy.
func (s *SevenZipStrategy) Name() string { return "7z" }

// Extract implements Strategy. Full paths are kept and existing files overwritten.
func (s *SevenZipStrategy) Extract(ctx context.Context, archivePath, destDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := s.Runner.Run(s.Binary, "x", "-y", "-o"+destDir, archivePath)
	return commandError(archivePath, s.Name(), out, err)
}

// PSQuote wraps s in a PowerShell single-quoted literal.
func PSQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func commandError(archivePath, strategy string, out []byte, err error) error {
	if err == nil {
		return nil
	}
	extractionErr := &errors.ExtractionError{
		Archive:  archivePath,
		Strategy: strategy,
		Output:   tail(string(out)),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		extractionErr.ExitCode = exitErr.ExitCode()
	}
	return extractionErr
}

func tail(out string) string {
	out = strings.TrimSpace(out)
	if len(out) > maxOutputTail {
		out = "..." + out[len(out)-maxOutputTail:]
	}
	return out
}
