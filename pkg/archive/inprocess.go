package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	"github.com/mholt/archives"
)

// InProcessStrategy extracts archives with mholt/archives without any
// external tool. It handles zip everywhere and rar when no 7-Zip binary is
// available.
type InProcessStrategy struct{}

// NewInProcessStrategy creates an InProcessStrategy.
func NewInProcessStrategy() *InProcessStrategy {
	return &InProcessStrategy{}
}

// Name implements Strategy.
func (s *InProcessStrategy) Name() string { return "in-process" }

// Extract writes every entry of archivePath below destDir, overwriting
// existing files.
func (s *InProcessStrategy) Extract(ctx context.Context, archivePath, destDir string) error {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return s.fail(archivePath, fmt.Errorf("failed to open archive file: %w", err))
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := os.MkdirAll(destDir, fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve destination directory: %w", err)
	}

	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return s.extractEntry(fsys, path, absDest, d)
	})
	if err != nil {
		return s.fail(archivePath, err)
	}
	return nil
}

// TopLevelDirs lists the distinct top-level folders of archivePath in
// lexical order. Files stored at the archive root are not reported.
func TopLevelDirs(ctx context.Context, archivePath string) ([]string, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	seen := make(map[string]struct{})
	dirs := make([]string, 0)
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		first, _, nested := strings.Cut(path, "/")
		if !nested && !d.IsDir() {
			return nil
		}
		if _, ok := seen[first]; !ok {
			seen[first] = struct{}{}
			dirs = append(dirs, first)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list archive %s: %w", archivePath, err)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func (s *InProcessStrategy) fail(archivePath string, err error) error {
	return &errors.ExtractionError{Archive: archivePath, Strategy: s.Name(), Err: err}
}

// extractEntry processes a single archive entry and writes it below destDir.
func (s *InProcessStrategy) extractEntry(fsys fs.FS, path, destDir string, d fs.DirEntry) error {
	if path == "." {
		return nil
	}

	targetPath := filepath.Join(destDir, filepath.FromSlash(path))
	if !withinDir(destDir, targetPath) {
		return fmt.Errorf("entry %q escapes destination: %w", path, errors.ErrInvalidPath)
	}

	if d.IsDir() {
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	}

	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info for %s: %w", path, err)
	}

	// Game archives never need links; skipping them keeps extraction inside destDir.
	if info.Mode()&os.ModeSymlink != 0 {
		return nil
	}

	return writeRegularFile(fsys, path, targetPath, info)
}

// writeRegularFile copies one archive entry to targetPath and keeps its mtime.
func writeRegularFile(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	srcFile, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = fsutil.FileModeDefault
	}
	// Read-only files from a previous extraction would block the overwrite.
	_ = os.Chmod(targetPath, fsutil.FileModeDefault)

	dstFile, err := fsutil.CreateFilePerm(targetPath, perm)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", path, err)
	}

	if !info.ModTime().IsZero() {
		_ = os.Chtimes(targetPath, info.ModTime(), info.ModTime())
	}
	return nil
}

func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
