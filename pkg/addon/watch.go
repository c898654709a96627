package addon

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	"github.com/glorpus-work/relictum/pkg/model"
)

// Watch emits the current listing and then a fresh one after every burst of
// changes in the add-on directory. The directory is created if missing. The
// channel is closed when ctx is done.
func (m *Manager) Watch(ctx context.Context) (<-chan []model.AddonRecord, error) {
	if err := fsutil.EnsureDir(m.addonDir); err != nil {
		return nil, fmt.Errorf("failed to create addon directory %s: %w", m.addonDir, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(m.addonDir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", m.addonDir, err)
	}

	out := make(chan []model.AddonRecord, 1)
	go m.watchLoop(ctx, watcher, out)
	return out, nil
}

func (m *Manager) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- []model.AddonRecord) {
	defer close(out)
	defer func() { _ = watcher.Close() }()

	if !m.publish(ctx, out) {
		return
	}

	timer := time.NewTimer(m.opts.WatchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) == IndexFileName || isTempFile(event.Name) {
				continue
			}
			logger.Debug("Addon directory changed", logger.Fields{"path": event.Name, "op": event.Op.String()})
			timer.Reset(m.opts.WatchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Addon watcher error", logger.Fields{"error": err})
		case <-timer.C:
			if !m.publish(ctx, out) {
				return
			}
		}
	}
}

func (m *Manager) publish(ctx context.Context, out chan<- []model.AddonRecord) bool {
	records, err := m.List()
	if err != nil {
		logger.Warn("Failed to list addons", logger.Fields{"error": err})
		return true
	}
	select {
	case out <- records:
		return true
	case <-ctx.Done():
		return false
	}
}

func isTempFile(name string) bool {
	return filepath.Ext(name) == ".tmp"
}
