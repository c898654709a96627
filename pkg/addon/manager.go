// Package addon manages the add-ons of one game install: listing the
// Interface/AddOns folder, installing packages from the catalog or from a
// local archive, and uninstalling folders.
package addon

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/archive"
	"github.com/glorpus-work/relictum/pkg/download"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	"github.com/glorpus-work/relictum/pkg/hooks"
	"github.com/glorpus-work/relictum/pkg/library"
	"github.com/glorpus-work/relictum/pkg/model"
)

// BuiltinPrefix marks folders shipped with the client; they are never listed.
const BuiltinPrefix = "Blizzard_"

// Options configure a Manager.
type Options struct {
	// GameID is the catalog category and the hook's gameId.
	GameID string
	// TempDir receives package downloads. Defaults to the OS temp dir.
	TempDir string
	// DownloadTimeout bounds a package download. Defaults to download.DefaultTimeout.
	DownloadTimeout time.Duration
	// WatchDebounce coalesces filesystem events. Defaults to 300ms.
	WatchDebounce time.Duration
	// Scripts runs the post-addon-install hook when set.
	Scripts hooks.HookManager
}

// Manager operates on <gameDir>/Interface/AddOns.
type Manager struct {
	gameDir    string
	addonDir   string
	downloader download.Manager
	resolver   URLResolver
	extractor  archive.Strategy
	opts       Options

	// indexMu serialises sidecar index updates.
	indexMu sync.Mutex
}

// NewManager creates a Manager for the game at installPath (an executable or
// a directory). downloader and resolver may be nil for local-only use.
func NewManager(installPath string, downloader download.Manager, resolver URLResolver, opts Options) *Manager {
	gameDir := library.GameDir(installPath)
	if opts.TempDir == "" {
		opts.TempDir = filepath.Join(os.TempDir(), "relictum-addons")
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = download.DefaultTimeout
	}
	if opts.WatchDebounce <= 0 {
		opts.WatchDebounce = 300 * time.Millisecond
	}
	return &Manager{
		gameDir:    gameDir,
		addonDir:   AddonDir(gameDir),
		downloader: downloader,
		resolver:   resolver,
		extractor:  archive.NewInProcessStrategy(),
		opts:       opts,
	}
}

// AddonDir returns <gameDir>/Interface/AddOns.
func AddonDir(gameDir string) string {
	return filepath.Join(gameDir, "Interface", "AddOns")
}

// Dir returns the managed add-on directory.
func (m *Manager) Dir() string { return m.addonDir }

// List returns one record per add-on folder, skipping built-in folders. A
// missing add-on directory yields an empty list.
func (m *Manager) List() ([]model.AddonRecord, error) {
	entries, err := os.ReadDir(m.addonDir)
	if os.IsNotExist(err) {
		return []model.AddonRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read addon directory %s: %w", m.addonDir, err)
	}

	idx, err := loadIndex(m.addonDir)
	if err != nil {
		logger.Warn("Ignoring unreadable addon index", logger.Fields{"dir": m.addonDir, "error": err})
		idx = &index{Addons: map[string]indexEntry{}}
	}

	seen := make(map[string]struct{})
	records := make([]model.AddonRecord, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, BuiltinPrefix) {
			continue
		}
		if caseInsensitiveFS() {
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		record := readRecord(m.addonDir, name)
		record.DetailURL = idx.detailURL(name)
		records = append(records, record)
	}
	return records, nil
}

// Install downloads downloadURL under the download deadline, unpacks it into
// the add-on directory and removes the temporary archive. Existing files are
// overwritten. It returns the top-level folders the package contained.
func (m *Manager) Install(ctx context.Context, downloadURL string) ([]string, error) {
	if m.downloader == nil {
		return nil, fmt.Errorf("download manager is not configured")
	}
	u, err := url.Parse(downloadURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid download url %q: %w", downloadURL, errors.ErrDownloadFailed)
	}
	tempDir, err := filepath.Abs(m.opts.TempDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.opts.TempDir, errors.ErrInvalidPath)
	}

	logger.Info("Downloading addon", logger.Fields{"url": downloadURL})
	archivePath, err := m.downloader.Fetch(ctx, download.Item{ID: downloadURL, URL: u}, download.Options{
		Dir:     tempDir,
		Timeout: m.opts.DownloadTimeout,
		NoReuse: true,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("Could not delete downloaded addon archive", logger.Fields{"path": archivePath, "error": err})
		}
	}()

	return m.unpack(ctx, archivePath)
}

// InstallFromCatalog resolves the package for entry and installs it, then
// remembers entry's detail URL for the installed folders.
func (m *Manager) InstallFromCatalog(ctx context.Context, entry model.CatalogEntry, category string) ([]string, error) {
	if m.resolver == nil {
		return nil, fmt.Errorf("catalog client is not configured")
	}
	if category == "" {
		category = m.opts.GameID
	}
	downloadURL, err := m.resolver.ResolveDownloadURL(ctx, entry.DetailURL, category)
	if err != nil {
		return nil, err
	}
	folders, err := m.Install(ctx, downloadURL)
	if err != nil {
		return nil, err
	}
	if err := m.updateIndex(func(idx *index) bool {
		idx.record(folders, entry.Title, entry.DetailURL)
		return len(folders) > 0
	}); err != nil {
		logger.Warn("Could not record addon origin", logger.Fields{"error": err})
	}
	return folders, nil
}

// InstallLocal unpacks a user-supplied archive. The archive itself is kept.
func (m *Manager) InstallLocal(ctx context.Context, archivePath string) ([]string, error) {
	if !fsutil.IsFile(archivePath) {
		return nil, fmt.Errorf("%s: %w", archivePath, errors.ErrArchiveNotFound)
	}
	if archive.DetectKind(archivePath) == archive.KindUnknown {
		return nil, fmt.Errorf("%s is not a supported archive: %w", archivePath, errors.ErrArchiveNotFound)
	}
	return m.unpack(ctx, archivePath)
}

func (m *Manager) unpack(ctx context.Context, archivePath string) ([]string, error) {
	if err := fsutil.EnsureDir(m.addonDir); err != nil {
		return nil, fmt.Errorf("failed to create addon directory %s: %w", m.addonDir, err)
	}

	folders, err := archive.TopLevelDirs(ctx, archivePath)
	if err != nil {
		logger.Debug("Could not list archive folders", logger.Fields{"archive": archivePath, "error": err})
	}

	logger.Info("Extracting addon", logger.Fields{"archive": archivePath, "dest": m.addonDir})
	if err := m.extractor.Extract(ctx, archivePath, m.addonDir); err != nil {
		return nil, err
	}

	m.runPostInstall(folders)
	logger.Success("Addon installed", logger.Fields{"folders": strings.Join(folders, ", ")})
	return folders, nil
}

func (m *Manager) runPostInstall(folders []string) {
	scripts := m.opts.Scripts
	if scripts == nil || !scripts.HasHook(hooks.PostAddonInstall) {
		return
	}
	err := scripts.Execute(hooks.PostAddonInstall, hooks.HookContext{
		GameID:      m.opts.GameID,
		InstallPath: m.gameDir,
		AddonName:   strings.Join(folders, ","),
	})
	if err != nil {
		logger.Errorf("Post-addon-install hook failed: %v", err)
	}
}

// Uninstall removes the named add-on folders. Missing folders are skipped;
// names that are not a single path element are rejected per item.
func (m *Manager) Uninstall(names []string) model.OperationResult {
	result := model.OperationResult{Items: make([]model.ItemResult, 0, len(names))}
	deleted := make([]string, 0, len(names))

	for _, name := range names {
		if !fsutil.SafeChildName(name) {
			result.Items = append(result.Items, model.ItemResult{Name: name, Error: errors.ErrInvalidPath.Error()})
			continue
		}
		target := filepath.Join(m.addonDir, name)
		if _, err := os.Lstat(target); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			result.Items = append(result.Items, model.ItemResult{Name: name, Error: err.Error()})
			continue
		}
		deleted = append(deleted, name)
		result.Items = append(result.Items, model.ItemResult{Name: name})
	}

	if len(deleted) > 0 {
		if err := m.updateIndex(func(idx *index) bool {
			changed := false
			for _, name := range deleted {
				changed = idx.forget(name) || changed
			}
			return changed
		}); err != nil {
			logger.Warn("Could not update addon index", logger.Fields{"error": err})
		}
	}

	if failures := result.Failures(); len(failures) > 0 {
		result.Success = false
		result.Message = fmt.Sprintf("Deleted %d addons. Errors: %s", len(deleted), result.FailureSummary())
		return result
	}
	result.Success = true
	result.Message = fmt.Sprintf("Deleted %d addons", len(deleted))
	return result
}

func (m *Manager) updateIndex(mutate func(*index) bool) error {
	m.indexMu.Lock()
	defer m.indexMu.Unlock()
	idx, err := loadIndex(m.addonDir)
	if err != nil {
		return err
	}
	if !mutate(idx) {
		return nil
	}
	return idx.save(m.addonDir)
}

func caseInsensitiveFS() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}
