package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
)

// Result describes one extraction run.
type Result struct {
	// Archive is the selected archive; empty when none was found.
	Archive string
	Kind    Kind
	// Strategy names the extractor that ran.
	Strategy string
	// ContentRoot is where the extracted content lives.
	ContentRoot string
	// ArchiveDeleted is false when the archive could not be removed afterwards.
	ArchiveDeleted bool
}

// Extractor runs the select, extract, delete and resolve-root sequence.
type Extractor struct {
	strategies StrategySource
}

// NewExtractor creates an Extractor backed by strategies.
func NewExtractor(strategies StrategySource) *Extractor {
	return &Extractor{strategies: strategies}
}

// Extract unpacks the archive found at input into dest.
//
// When no archive is found the returned Result carries input as its
// ContentRoot together with an error matching ErrArchiveNotFound; callers
// treat that as non-fatal. On extraction failure the archive is left in place.
func (e *Extractor) Extract(ctx context.Context, input, dest string) (Result, error) {
	archivePath, kind, err := Select(input)
	if err != nil {
		if errors.Is(err, errors.ErrArchiveNotFound) {
			logger.Warn("No archive found, treating input as extracted content", logger.Fields{"input": input})
			return Result{ContentRoot: input}, err
		}
		return Result{}, err
	}

	strategy := e.strategies.StrategyFor(kind)
	result := Result{Archive: archivePath, Kind: kind, Strategy: strategy.Name()}

	if err := fsutil.EnsureDir(dest); err != nil {
		return result, fmt.Errorf("failed to create destination %s: %w", dest, err)
	}

	logger.Info("Extracting archive", logger.Fields{
		"archive":  archivePath,
		"kind":     string(kind),
		"strategy": strategy.Name(),
		"dest":     dest,
	})
	if err := strategy.Extract(ctx, archivePath, dest); err != nil {
		if !errors.Is(err, errors.ErrExtractionFailed) {
			err = &errors.ExtractionError{Archive: archivePath, Strategy: strategy.Name(), Err: err}
		}
		return result, err
	}

	if err := os.Remove(archivePath); err != nil {
		logger.Warn("Could not delete archive after extraction", logger.Fields{"archive": archivePath, "error": err})
	} else {
		result.ArchiveDeleted = true
	}

	result.ContentRoot = ResolveContentRoot(archivePath, dest)
	return result, nil
}

// ResolveContentRoot returns dest/<archive stem> when the archive unpacked
// into a folder named after itself, and dest otherwise.
func ResolveContentRoot(archivePath, dest string) string {
	candidate := filepath.Join(dest, Stem(archivePath))
	if fsutil.IsDir(candidate) {
		return candidate
	}
	return dest
}
