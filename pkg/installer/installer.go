//go:generate mockgen -destination=mocks/installer.go . Extractor,ExecutableFinder

// Package installer turns a downloaded game archive into a launchable install:
// extract, clean up, locate the content root and find the game binary.
package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/archive"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	"github.com/glorpus-work/relictum/pkg/hooks"
)

// Extractor is the subset of archive.Extractor used by the pipeline.
type Extractor interface {
	Extract(ctx context.Context, input, dest string) (archive.Result, error)
}

// ExecutableFinder locates the game binary below one of several roots.
type ExecutableFinder interface {
	Resolve(roots ...string) (string, bool)
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // extracting|resolving|done|error
	ID    string // destination root
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Options control a single install run.
type Options struct {
	// SkipExtraction treats the downloaded path as already-extracted content.
	SkipExtraction bool
	// GameID is passed to the post-install script.
	GameID string
}

// Result describes a finished install.
type Result struct {
	// ExecutablePath is the game binary, or ContentRoot when none was found.
	ExecutablePath string
	ContentRoot    string
	Found          bool
	Archive        string
	ArchiveDeleted bool
}

// Pipeline ties extraction and executable discovery together.
type Pipeline struct {
	Extractor Extractor
	Finder    ExecutableFinder
	Scripts   hooks.HookManager // optional; runs the post-install script
	Hooks     Hooks             // Hooks for progress and event notifications

	mu      sync.Mutex
	running map[string]struct{}
}

// New constructs a Pipeline. scripts and h may be zero values.
func New(extractor Extractor, finder ExecutableFinder, scripts hooks.HookManager, h Hooks) *Pipeline {
	return &Pipeline{
		Extractor: extractor,
		Finder:    finder,
		Scripts:   scripts,
		Hooks:     h,
	}
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Install runs select, extract, delete, resolve root and resolve executable
// strictly in that order. A missing archive or a missing executable is not an
// error; an extraction failure is. Concurrent installs into the same
// destination fail with ErrInstallInProgress.
func (p *Pipeline) Install(ctx context.Context, downloadedPath, destinationRoot string, opts Options) (Result, error) {
	if p.Finder == nil {
		return Result{}, fmt.Errorf("executable finder is not configured")
	}
	key, err := guardKey(destinationRoot)
	if err != nil {
		return Result{}, err
	}
	if !p.acquire(key) {
		return Result{}, fmt.Errorf("%s: %w", destinationRoot, errors.ErrInstallInProgress)
	}
	defer p.release(key)

	result := Result{ContentRoot: destinationRoot}
	if opts.SkipExtraction {
		if fsutil.IsDir(downloadedPath) {
			result.ContentRoot = downloadedPath
		}
	} else {
		if p.Extractor == nil {
			return Result{}, fmt.Errorf("extractor is not configured")
		}
		emit(p.Hooks, Event{Phase: "extracting", ID: destinationRoot, Msg: downloadedPath})
		extracted, err := p.Extractor.Extract(ctx, downloadedPath, destinationRoot)
		switch {
		case err == nil:
		case errors.Is(err, errors.ErrArchiveNotFound):
			logger.Debug("Install source is not an archive", logger.Fields{"path": downloadedPath})
		default:
			emit(p.Hooks, Event{Phase: "error", ID: destinationRoot, Msg: err.Error()})
			return Result{}, err
		}
		switch {
		case fsutil.IsDir(extracted.ContentRoot) || fsutil.IsFile(extracted.ContentRoot):
			result.ContentRoot = extracted.ContentRoot
		case extracted.Archive == "":
			// The archive is gone, most likely extracted by an earlier run.
			result.ContentRoot = archive.ResolveContentRoot(downloadedPath, destinationRoot)
		}
		result.Archive = extracted.Archive
		result.ArchiveDeleted = extracted.ArchiveDeleted
	}

	emit(p.Hooks, Event{Phase: "resolving", ID: destinationRoot, Msg: result.ContentRoot})
	result.ExecutablePath, result.Found = p.Finder.Resolve(result.ContentRoot, destinationRoot)
	if !result.Found {
		logger.Warn("Game executable not found, using content root", logger.Fields{"root": result.ContentRoot})
	}

	p.runPostInstall(opts, result)
	emit(p.Hooks, Event{Phase: "done", ID: destinationRoot, Msg: result.ExecutablePath})
	return result, nil
}

func (p *Pipeline) runPostInstall(opts Options, result Result) {
	if p.Scripts == nil || !p.Scripts.HasHook(hooks.PostInstall) {
		return
	}
	err := p.Scripts.Execute(hooks.PostInstall, hooks.HookContext{
		GameID:         opts.GameID,
		InstallPath:    result.ContentRoot,
		ExecutablePath: result.ExecutablePath,
	})
	if err != nil {
		// Don't fail the installation if post-install hooks fail, just log the error
		logger.Errorf("Post-install hook failed: %v", err)
	}
}

// Busy reports whether an install into destinationRoot is running.
func (p *Pipeline) Busy(destinationRoot string) bool {
	key, err := guardKey(destinationRoot)
	if err != nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.running[key]
	return ok
}

func (p *Pipeline) acquire(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running == nil {
		p.running = make(map[string]struct{})
	}
	if _, busy := p.running[key]; busy {
		return false
	}
	p.running[key] = struct{}{}
	return true
}

func (p *Pipeline) release(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.running, key)
}

func guardKey(destinationRoot string) (string, error) {
	if destinationRoot == "" {
		return "", fmt.Errorf("destination root is empty: %w", errors.ErrInvalidPath)
	}
	abs, err := filepath.Abs(destinationRoot)
	if err != nil {
		return "", fmt.Errorf("%s: %w", destinationRoot, errors.ErrInvalidPath)
	}
	return filepath.Clean(abs), nil
}
