package launcher

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/glorpus-work/relictum/pkg/addon"
	"github.com/glorpus-work/relictum/pkg/archive"
	"github.com/glorpus-work/relictum/pkg/model"
)

// CatalogItem is a catalog entry annotated with its install state.
type CatalogItem struct {
	model.CatalogEntry
	Installed bool `json:"installed"`
}

// Addons returns the add-on manager for gameID's install.
func (l *Launcher) Addons(gameID string) (*addon.Manager, error) {
	entry, err := l.library.MustGet(gameID)
	if err != nil {
		return nil, err
	}
	return addon.NewManager(entry.InstallPath, l.downloads, l.catalog, addon.Options{
		GameID:          entry.GameID,
		TempDir:         l.cache.AddonDir(),
		DownloadTimeout: l.cfg.Settings.DownloadTimeout,
		Scripts:         l.scripts,
	}), nil
}

// ListAddons returns the installed add-ons of gameID grouped by base folder.
func (l *Launcher) ListAddons(gameID string) ([]model.AddonRecord, error) {
	m, err := l.Addons(gameID)
	if err != nil {
		return nil, err
	}
	records, err := m.List()
	if err != nil {
		return nil, err
	}
	return addon.Group(records), nil
}

// BrowseAddons lists the catalog for gameID. When the game is in the library
// each entry reports whether it is already installed.
func (l *Launcher) BrowseAddons(ctx context.Context, gameID string) ([]CatalogItem, error) {
	game, err := model.LookupGame(gameID)
	if err != nil {
		return nil, err
	}
	entries, err := l.catalog.Browse(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	var installed []model.AddonRecord
	if m, err := l.Addons(game.ID); err == nil {
		installed, _ = m.List()
	}

	items := make([]CatalogItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, CatalogItem{CatalogEntry: e, Installed: addon.IsInstalled(installed, e)})
	}
	return items, nil
}

// InstallAddon installs into gameID from target: a direct .zip link, or a
// catalog detail page whose package link is resolved first.
func (l *Launcher) InstallAddon(ctx context.Context, gameID, target string) model.OperationResult {
	m, err := l.Addons(gameID)
	if err != nil {
		return model.Failed(err)
	}

	var folders []string
	if isPackageLink(target) {
		folders, err = m.Install(ctx, target)
	} else {
		folders, err = m.InstallFromCatalog(ctx, model.CatalogEntry{DetailURL: target}, gameID)
	}
	if err != nil {
		return model.Failed(err)
	}
	return installedResult(folders)
}

// InstallAddons installs several targets into gameID, downloading their
// packages concurrently. Targets follow the same rules as InstallAddon.
func (l *Launcher) InstallAddons(ctx context.Context, gameID string, targets []string) model.OperationResult {
	m, err := l.Addons(gameID)
	if err != nil {
		return model.Failed(err)
	}
	pkgs := make([]addon.Package, 0, len(targets))
	for _, target := range targets {
		if isPackageLink(target) {
			pkgs = append(pkgs, addon.Package{DownloadURL: target})
		} else {
			pkgs = append(pkgs, addon.Package{Entry: model.CatalogEntry{DetailURL: target}})
		}
	}
	return m.InstallBatch(ctx, pkgs)
}

// InstallLocalAddon unpacks an archive from disk into gameID's add-on folder.
func (l *Launcher) InstallLocalAddon(ctx context.Context, gameID, archivePath string) model.OperationResult {
	m, err := l.Addons(gameID)
	if err != nil {
		return model.Failed(err)
	}
	folders, err := m.InstallLocal(ctx, archivePath)
	if err != nil {
		return model.Failed(err)
	}
	return installedResult(folders)
}

// UninstallAddons removes the named add-on folders from gameID.
func (l *Launcher) UninstallAddons(gameID string, names []string) model.OperationResult {
	m, err := l.Addons(gameID)
	if err != nil {
		return model.Failed(err)
	}
	return m.Uninstall(names)
}

func installedResult(folders []string) model.OperationResult {
	res := model.Succeeded("Installed %d addon folder(s)", len(folders))
	if len(folders) > 0 {
		res.Message += fmt.Sprintf(": %s", strings.Join(folders, ", "))
	}
	for _, f := range folders {
		res.Items = append(res.Items, model.ItemResult{Name: f})
	}
	return res
}

func isPackageLink(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return archive.DetectKind(u.Path) == archive.KindZip
}
