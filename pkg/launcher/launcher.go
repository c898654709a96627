// Package launcher ties the relictum components together behind one service
// object. A Launcher is built once from the loaded configuration and closed at
// shutdown; its methods are the boundary the CLI talks to and report outcomes
// as model.OperationResult instead of bare errors.
package launcher

import (
	"fmt"
	"os"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/archive"
	"github.com/glorpus-work/relictum/pkg/cache"
	"github.com/glorpus-work/relictum/pkg/catalog"
	"github.com/glorpus-work/relictum/pkg/config"
	"github.com/glorpus-work/relictum/pkg/download"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/executable"
	"github.com/glorpus-work/relictum/pkg/game"
	"github.com/glorpus-work/relictum/pkg/hooks"
	pkghttp "github.com/glorpus-work/relictum/pkg/http"
	"github.com/glorpus-work/relictum/pkg/installer"
	"github.com/glorpus-work/relictum/pkg/integrity"
	"github.com/glorpus-work/relictum/pkg/library"
	"github.com/glorpus-work/relictum/pkg/model"
	"github.com/glorpus-work/relictum/pkg/supervisor"
	"github.com/glorpus-work/relictum/pkg/update"
)

// Options configure a Launcher beyond what the config file holds.
type Options struct {
	// Version is the running relictum build, used by the integrity and
	// update checks.
	Version string
	// Packaged marks a release build. Development builds skip hashing.
	Packaged bool
	// Fetcher replaces the HTTP client built from the config.
	Fetcher pkghttp.Fetcher
	// VersionDetector replaces the host detector.
	VersionDetector *game.VersionDetector
	// OnInstallEvent observes install pipeline progress.
	OnInstallEvent func(installer.Event)
	// OnProcessEvent observes launched game sessions.
	OnProcessEvent func(supervisor.Event)
}

// Launcher owns every long-lived component.
type Launcher struct {
	cfg  *config.Config
	opts Options

	library    *library.Store
	fetcher    pkghttp.Fetcher
	downloads  *download.ManagerImpl
	resolver   *executable.Resolver
	scripts    *hooks.DefaultHookManager
	pipeline   *installer.Pipeline
	catalog    *catalog.Client
	supervisor *supervisor.Supervisor
	cache      *cache.DefaultManager
	verifier   *integrity.Verifier
	versions   *game.VersionDetector
	updates    *update.Checker
}

// New builds a Launcher from cfg. Hook scripts are loaded from the hooks
// directory first; explicitly configured script paths win.
func New(cfg *config.Config, opts Options) (*Launcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", errors.ErrConfigValidation)
	}

	store, err := library.Open(cfg.GetLibraryPath())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open library")
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = pkghttp.NewHTTPClient(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent)
	}

	scripts := hooks.NewHookManager()
	if err := hooks.LoadDir(scripts, cfg.GetHooksDir()); err != nil {
		return nil, err
	}
	if err := hooks.LoadScripts(scripts, map[hooks.HookType]string{
		hooks.PreLaunch:        cfg.Hooks.PreLaunch,
		hooks.PostInstall:      cfg.Hooks.PostInstall,
		hooks.PostAddonInstall: cfg.Hooks.PostAddonInstall,
	}); err != nil {
		return nil, err
	}

	catalogClient, err := catalog.NewClient(cfg.Settings.CatalogURL, fetcher, cfg.Settings.DetailTimeout)
	if err != nil {
		return nil, err
	}

	cacheManager := cache.NewManager(cfg.GetCacheDir())
	if err := os.MkdirAll(cfg.GetCacheDir(), cache.CacheDirPerm); err != nil {
		return nil, errors.Wrap(err, "failed to create cache directory")
	}

	target := cfg.Integrity.BundlePath
	if target == "" {
		if target, err = integrity.Target(integrity.BundleName); err != nil {
			logger.Debug("Integrity target unavailable", logger.Fields{"error": err})
		}
	}

	versions := opts.VersionDetector
	if versions == nil {
		versions = game.NewVersionDetector()
	}

	resolver := executable.NewResolver(cfg.Search.MaxDepth, cfg.Search.ExtraNames...)
	extractor := archive.NewExtractor(archive.NewSelector(cfg.Extraction.SevenZipPath))

	sup := supervisor.New()
	sup.OnEvent = opts.OnProcessEvent

	l := &Launcher{
		cfg:        cfg,
		opts:       opts,
		library:    store,
		fetcher:    fetcher,
		downloads:  download.NewManager(fetcher, cfg.Settings.DownloadTimeout),
		resolver:   resolver,
		scripts:    scripts,
		pipeline:   installer.New(extractor, resolver, scripts, installer.Hooks{OnEvent: opts.OnInstallEvent}),
		catalog:    catalogClient,
		supervisor: sup,
		cache:      cacheManager,
		verifier: &integrity.Verifier{
			Enabled:    cfg.Integrity.Enabled,
			Packaged:   opts.Packaged,
			TargetPath: target,
			Version:    opts.Version,
			Endpoint:   cfg.Integrity.Endpoint,
			Fetcher:    fetcher,
		},
		versions: versions,
		updates: &update.Checker{
			Fetcher:    fetcher,
			Repository: cfg.Update.Repository,
			Current:    opts.Version,
		},
	}
	logger.Debug("Launcher ready", logger.Fields{"library": store.Path(), "cache": cfg.GetCacheDir()})
	return l, nil
}

// Config returns the configuration the Launcher was built from.
func (l *Launcher) Config() *config.Config { return l.cfg }

// Cache returns the launcher cache operations.
func (l *Launcher) Cache() *cache.Operation { return cache.NewOperation(l.cache) }

// Downloads returns a snapshot of every download task seen so far.
func (l *Launcher) Downloads() []model.DownloadTask { return l.downloads.Tasks() }

// Sessions lists the running game clients started by this Launcher.
func (l *Launcher) Sessions() []*supervisor.Session { return l.supervisor.Active() }

// Close stops tracking launched clients. They keep running.
func (l *Launcher) Close() error {
	return l.supervisor.Close()
}
