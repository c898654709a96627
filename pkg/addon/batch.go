package addon

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/download"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/model"
)

// Package is one add-on to install: a direct package link, or a catalog
// entry whose link is resolved first.
type Package struct {
	DownloadURL string
	Entry       model.CatalogEntry
}

// name identifies the package in results.
func (p Package) name() string {
	switch {
	case p.Entry.Title != "":
		return p.Entry.Title
	case p.Entry.DetailURL != "":
		return p.Entry.DetailURL
	default:
		return p.DownloadURL
	}
}

type batchItem struct {
	pkg  Package
	item download.Item
}

// InstallBatch resolves the link of every package, downloads them together
// and unpacks them one at a time. Every package gets its own ItemResult; a
// failing package does not stop the others.
func (m *Manager) InstallBatch(ctx context.Context, pkgs []Package) model.OperationResult {
	if m.downloader == nil {
		return model.Failed(fmt.Errorf("download manager is not configured"))
	}
	tempDir, err := filepath.Abs(m.opts.TempDir)
	if err != nil {
		return model.Failed(fmt.Errorf("%s: %w", m.opts.TempDir, errors.ErrInvalidPath))
	}

	result := model.OperationResult{Items: make([]model.ItemResult, 0, len(pkgs))}
	fail := func(name string, err error) {
		result.Items = append(result.Items, model.ItemResult{Name: name, Error: err.Error()})
	}

	queued := make([]batchItem, 0, len(pkgs))
	for i, p := range pkgs {
		u, err := m.packageURL(ctx, p)
		if err != nil {
			fail(p.name(), err)
			continue
		}
		queued = append(queued, batchItem{pkg: p, item: download.Item{
			ID:       fmt.Sprintf("addon-%d", i),
			URL:      u,
			Filename: fmt.Sprintf("%d-%s", i, path.Base(u.Path)),
		}})
	}

	var paths map[string]string
	if len(queued) > 0 {
		items := make([]download.Item, len(queued))
		for i, q := range queued {
			items[i] = q.item
		}
		logger.Info("Downloading addons", logger.Fields{"count": len(items)})
		var fetchErr error
		paths, fetchErr = m.downloader.FetchAll(ctx, items, download.Options{
			Dir:     tempDir,
			Timeout: m.opts.DownloadTimeout,
			NoReuse: true,
		})
		var perItem download.FetchErrors
		if fetchErr != nil && !errors.As(fetchErr, &perItem) {
			for _, q := range queued {
				fail(q.pkg.name(), fetchErr)
			}
			queued = nil
		}
		for _, q := range queued {
			if err, ok := perItem[q.item.ID]; ok {
				fail(q.pkg.name(), err)
			}
		}
	}

	installed := make([]string, 0, len(queued))
	for _, q := range queued {
		archivePath, ok := paths[q.item.ID]
		if !ok {
			continue
		}
		folders, err := m.unpack(ctx, archivePath)
		if rmErr := os.Remove(archivePath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn("Could not delete downloaded addon archive", logger.Fields{"path": archivePath, "error": rmErr})
		}
		if err != nil {
			fail(q.pkg.name(), err)
			continue
		}
		if q.pkg.Entry.DetailURL != "" {
			if err := m.updateIndex(func(idx *index) bool {
				idx.record(folders, q.pkg.Entry.Title, q.pkg.Entry.DetailURL)
				return len(folders) > 0
			}); err != nil {
				logger.Warn("Could not record addon origin", logger.Fields{"error": err})
			}
		}
		installed = append(installed, folders...)
		result.Items = append(result.Items, model.ItemResult{Name: q.pkg.name()})
	}

	result.Success = len(result.Failures()) == 0
	result.Message = fmt.Sprintf("Installed %d of %d addon(s)", len(pkgs)-len(result.Failures()), len(pkgs))
	if len(installed) > 0 {
		result.Message += ": " + strings.Join(installed, ", ")
	}
	if !result.Success {
		result.Message += ". Errors: " + result.FailureSummary()
	}
	return result
}

func (m *Manager) packageURL(ctx context.Context, p Package) (*url.URL, error) {
	raw := p.DownloadURL
	if raw == "" {
		if m.resolver == nil {
			return nil, fmt.Errorf("catalog client is not configured")
		}
		resolved, err := m.resolver.ResolveDownloadURL(ctx, p.Entry.DetailURL, m.opts.GameID)
		if err != nil {
			return nil, err
		}
		raw = resolved
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid download url %q: %w", raw, errors.ErrDownloadFailed)
	}
	return u, nil
}
