package launcher

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/archive"
	"github.com/glorpus-work/relictum/pkg/cache"
	"github.com/glorpus-work/relictum/pkg/download"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	"github.com/glorpus-work/relictum/pkg/hooks"
	"github.com/glorpus-work/relictum/pkg/installer"
	"github.com/glorpus-work/relictum/pkg/library"
	"github.com/glorpus-work/relictum/pkg/model"
	"github.com/glorpus-work/relictum/pkg/realmlist"
	"github.com/glorpus-work/relictum/pkg/supervisor"
)

// InstallOptions control InstallGame.
type InstallOptions struct {
	// Checksum is the expected SHA-256 of a downloaded archive.
	Checksum string
	// SkipExtraction treats source as already extracted content.
	SkipExtraction bool
}

// ListGames returns the library in release order.
func (l *Launcher) ListGames() []model.LibraryEntry {
	return l.library.List()
}

// InstallGame installs gameID from source into dest. source is a local
// archive, a directory holding one, or an http(s) URL that is downloaded into
// the cache first. The library gains an entry only when gameID has none yet.
func (l *Launcher) InstallGame(ctx context.Context, gameID, source, dest string, opts InstallOptions) model.OperationResult {
	game, err := model.LookupGame(gameID)
	if err != nil {
		return model.Failed(err)
	}

	if remote, ok := remoteSource(source); ok {
		downloaded, err := l.downloads.Fetch(ctx, download.Item{
			ID:       game.ID,
			URL:      remote,
			Checksum: opts.Checksum,
		}, download.Options{
			Dir:     l.cache.DownloadDir(),
			Timeout: l.cfg.Settings.ArchiveTimeout,
		})
		if err != nil {
			return model.Failed(err)
		}
		if source, err = withArchiveExt(downloaded); err != nil {
			return model.Failed(fmt.Errorf("%s: %w", remote, err))
		}
	}

	result, err := l.pipeline.Install(ctx, source, dest, installer.Options{
		SkipExtraction: opts.SkipExtraction,
		GameID:         game.ID,
	})
	if err != nil {
		return model.Failed(err)
	}

	detected := l.detectVersion(result.ExecutablePath)
	entry, added, err := l.library.RecordInstall(game.ID, result.ExecutablePath, detected)
	if err != nil {
		return model.Failed(err)
	}
	if added {
		if err := l.library.Save(); err != nil {
			return model.Failed(err)
		}
	}

	res := model.Succeeded("Installed %s to %s", game.Name, result.ExecutablePath)
	if !result.Found {
		res.Message += " (game executable not found, recorded the content folder)"
	}
	if !added {
		res.Message += fmt.Sprintf("; library keeps %s", entry.InstallPath)
	}
	return res
}

// LocateGame points gameID at an existing install, replacing any entry.
func (l *Launcher) LocateGame(gameID, installPath string) model.OperationResult {
	if fsutil.IsDir(installPath) {
		if exe, ok := l.resolver.Resolve(installPath); ok {
			installPath = exe
		}
	}
	entry, err := l.library.Locate(gameID, installPath, l.detectVersion(installPath))
	if err != nil {
		return model.Failed(err)
	}
	if err := l.library.Save(); err != nil {
		return model.Failed(err)
	}
	return model.Succeeded("%s located at %s", entry.GameID, entry.InstallPath)
}

// ForgetGame removes gameID from the library. Files stay on disk.
func (l *Launcher) ForgetGame(gameID string) model.OperationResult {
	if !l.library.Forget(gameID) {
		return model.Failed(fmt.Errorf("%s: %w", gameID, errors.ErrGameNotInLibrary))
	}
	if err := l.library.Save(); err != nil {
		return model.Failed(err)
	}
	return model.Succeeded("Removed %s from the library", gameID)
}

// MoveGame relocates the folder of gameID into targetParent, for example onto
// another drive, and points the library at the moved client.
func (l *Launcher) MoveGame(gameID, targetParent string) model.OperationResult {
	entry, err := l.library.MustGet(gameID)
	if err != nil {
		return model.Failed(err)
	}
	gameDir := library.GameDir(entry.InstallPath)
	if l.pipeline.Busy(gameDir) || l.pipeline.Busy(filepath.Dir(gameDir)) {
		return model.Failed(fmt.Errorf("%s: %w", gameDir, errors.ErrInstallInProgress))
	}
	for _, session := range l.supervisor.Active() {
		if strings.HasPrefix(session.Path, gameDir+string(filepath.Separator)) {
			return model.Failed(fmt.Errorf("%s is running (pid %d): %w", entry.GameID, session.PID, errors.ErrGameRunning))
		}
	}
	parent, err := filepath.Abs(targetParent)
	if err != nil {
		return model.Failed(fmt.Errorf("%s: %w", targetParent, errors.ErrInvalidPath))
	}
	target := filepath.Join(parent, filepath.Base(gameDir))
	if rel, err := filepath.Rel(gameDir, target); err == nil && !strings.HasPrefix(rel, "..") {
		return model.Failed(fmt.Errorf("%s is inside %s: %w", target, gameDir, errors.ErrInvalidPath))
	}
	if _, err := os.Lstat(target); err == nil {
		return model.Failed(fmt.Errorf("%s already exists: %w", target, errors.ErrInvalidPath))
	}

	rel, err := filepath.Rel(gameDir, entry.InstallPath)
	if err != nil {
		return model.Failed(err)
	}
	logger.Info("Moving game folder", logger.Fields{"game": entry.GameID, "from": gameDir, "to": target})
	if err := fsutil.Move(gameDir, target); err != nil {
		return model.Failed(err)
	}

	moved, err := l.library.Locate(entry.GameID, filepath.Join(target, rel), entry.DetectedVersion)
	if err != nil {
		return model.Failed(err)
	}
	if err := l.library.Save(); err != nil {
		return model.Failed(err)
	}
	return model.Succeeded("Moved %s to %s", moved.GameID, moved.InstallPath)
}

// LaunchGame starts the client recorded for gameID. With clearCache, or
// launch.clear_cache in the config, the client cache is cleared first. A
// failing pre-launch script aborts the launch.
func (l *Launcher) LaunchGame(ctx context.Context, gameID string, clearCache bool) (*supervisor.Session, model.OperationResult) {
	entry, err := l.library.MustGet(gameID)
	if err != nil {
		return nil, model.Failed(err)
	}

	exePath := entry.InstallPath
	if fsutil.IsDir(exePath) {
		found, ok := l.resolver.Resolve(exePath)
		if !ok {
			return nil, model.Failed(fmt.Errorf("%s: %w", exePath, errors.ErrExecutableNotFound))
		}
		exePath = found
	}

	if clearCache || l.cfg.Launch.ClearCache {
		if _, err := cache.ClearGame(library.GameDir(exePath)); err != nil {
			logger.Warn("Could not clear game cache", logger.Fields{"game": entry.GameID, "error": err})
		}
	}

	if err := l.scripts.Execute(hooks.PreLaunch, hooks.HookContext{
		GameID:         entry.GameID,
		InstallPath:    entry.InstallPath,
		ExecutablePath: exePath,
	}); err != nil {
		return nil, model.Failed(errors.Wrap(err, "launch aborted by pre-launch hook"))
	}

	session, err := l.supervisor.Launch(ctx, exePath)
	if err != nil {
		return nil, model.Failed(err)
	}
	return session, model.Succeeded("Launched %s (pid %d)", entry.GameID, session.PID)
}

// ClearGameCache removes the WDB and Cache folders of gameID's install.
func (l *Launcher) ClearGameCache(gameID string) model.OperationResult {
	entry, err := l.library.MustGet(gameID)
	if err != nil {
		return model.Failed(err)
	}
	msg, err := l.Cache().ClearGame(library.GameDir(entry.InstallPath))
	if err != nil {
		return model.Failed(err)
	}
	return model.Succeeded("%s", msg)
}

// ReadRealmlist returns the realmlist.wtf content of gameID and its path.
func (l *Launcher) ReadRealmlist(gameID string) (content, location string, err error) {
	entry, err := l.library.MustGet(gameID)
	if err != nil {
		return "", "", err
	}
	return realmlist.Read(entry.InstallPath)
}

// WriteRealmlist replaces the realmlist of gameID. A bare host name is
// expanded to a "set realmlist" directive.
func (l *Launcher) WriteRealmlist(gameID, content string) model.OperationResult {
	entry, err := l.library.MustGet(gameID)
	if err != nil {
		return model.Failed(err)
	}
	trimmed := strings.TrimSpace(content)
	if trimmed != "" && !strings.ContainsAny(trimmed, " \n") {
		content = realmlist.Directive(trimmed)
	}
	written, err := realmlist.Write(entry.InstallPath, content)
	if err != nil {
		return model.Failed(err)
	}
	res := model.Succeeded("Updated %d realmlist file(s)", len(written))
	for _, p := range written {
		res.Items = append(res.Items, model.ItemResult{Name: p})
	}
	return res
}

func (l *Launcher) detectVersion(exePath string) string {
	if !fsutil.IsFile(exePath) {
		return ""
	}
	v, err := l.versions.Detect(exePath)
	if err != nil {
		if !errors.Is(err, errors.ErrVersionUnavailable) {
			logger.Debug("Game version not detected", logger.Fields{"path": exePath, "error": err})
		}
		return ""
	}
	return v
}

// withArchiveExt makes sure a downloaded file carries the extension of its
// format, naming it from its content when the URL had none.
func withArchiveExt(downloaded string) (string, error) {
	if archive.DetectKind(downloaded) != archive.KindUnknown {
		return downloaded, nil
	}
	kind, err := archive.Sniff(downloaded)
	if err != nil {
		return "", err
	}
	if kind == archive.KindUnknown {
		_ = os.Remove(downloaded)
		return "", fmt.Errorf("downloaded file is not a zip or rar archive: %w", errors.ErrArchiveNotFound)
	}
	named := downloaded + "." + string(kind)
	if err := os.Rename(downloaded, named); err != nil {
		return "", fmt.Errorf("failed to name downloaded archive: %w", err)
	}
	return named, nil
}

func remoteSource(source string) (*url.URL, bool) {
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return nil, false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if path.Ext(u.Path) == "" {
			logger.Debug("Remote source has no file extension", logger.Fields{"url": source})
		}
		return u, true
	}
	return nil, false
}
