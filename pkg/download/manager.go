package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glorpus-work/relictum/internal/logger"
	pkgerrors "github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	pkghttp "github.com/glorpus-work/relictum/pkg/http"
	"github.com/glorpus-work/relictum/pkg/model"
)

// ManagerImpl downloads through a pkghttp.Fetcher with optional checksum
// verification, per-item deadlines and de-duplication by URL.
type ManagerImpl struct {
	fetcher pkghttp.Fetcher
	timeout time.Duration

	mu    sync.Mutex
	tasks map[string]*model.DownloadTask
	order []string
}

// NewManager creates a new download manager. timeout <= 0 selects DefaultTimeout.
func NewManager(fetcher pkghttp.Fetcher, timeout time.Duration) *ManagerImpl {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ManagerImpl{
		fetcher: fetcher,
		timeout: timeout,
		tasks:   make(map[string]*model.DownloadTask),
	}
}

// FetchAll downloads items concurrently, sharing one transfer between items
// with the same URL. It returns the local path of every item that succeeded,
// keyed by Item.ID. When some items fail the error is a FetchErrors holding
// one entry per failed item; the returned map still covers the rest.
func (m *ManagerImpl) FetchAll(ctx context.Context, items []Item, opts Options) (map[string]string, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = max(2, runtime.NumCPU()/2)
	}
	if err := prepareDir(opts.Dir); err != nil {
		return nil, err
	}

	byURL, err := buildURLIndex(items)
	if err != nil {
		return nil, err
	}
	paths, failures := m.runDownloadWorkers(ctx, items, byURL, opts)

	out := make(map[string]string, len(items))
	failed := make(FetchErrors)
	for i, it := range items {
		if err, ok := failures[i]; ok {
			failed[it.ID] = err
			continue
		}
		out[it.ID] = paths[i]
	}
	if len(failed) > 0 {
		return out, failed
	}
	return out, nil
}

// FetchErrors maps Item.ID to the error that item failed with.
type FetchErrors map[string]error

func (e FetchErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, id := range sortedKeys(e) {
		parts = append(parts, fmt.Sprintf("%s: %v", id, e[id]))
	}
	return fmt.Sprintf("%d download(s) failed: %s", len(e), strings.Join(parts, "; "))
}

// Unwrap exposes the item errors to errors.Is and errors.As.
func (e FetchErrors) Unwrap() []error {
	out := make([]error, 0, len(e))
	for _, id := range sortedKeys(e) {
		out = append(out, e[id])
	}
	return out
}

// Fetch downloads a single item and returns the path to the downloaded file.
func (m *ManagerImpl) Fetch(ctx context.Context, item Item, opts Options) (string, error) {
	if err := prepareDir(opts.Dir); err != nil {
		return "", err
	}
	return m.fetchOne(ctx, item, opts)
}

// Tasks returns a snapshot of every task started by this manager, oldest first.
func (m *ManagerImpl) Tasks() []model.DownloadTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.DownloadTask, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.tasks[id])
	}
	return out
}

// Active returns the number of tasks still in flight.
func (m *ManagerImpl) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, task := range m.tasks {
		if task.Status.IsActive() {
			n++
		}
	}
	return n
}

func prepareDir(dir string) error {
	if dir == "" || !filepath.IsAbs(dir) {
		return fmt.Errorf("download dir must be absolute: %s: %w", dir, pkgerrors.ErrInvalidPath)
	}
	if err := os.MkdirAll(dir, fsutil.DirModeSecure); err != nil {
		return pkgerrors.Wrap(err, "could not create download dir")
	}
	return nil
}

func buildURLIndex(items []Item) (map[string][]int, error) {
	byURL := make(map[string][]int)
	for i, it := range items {
		if it.URL == nil {
			return nil, fmt.Errorf("item %d has nil URL: %w", i, pkgerrors.ErrDownloadFailed)
		}
		key := it.URL.String()
		byURL[key] = append(byURL[key], i)
	}
	return byURL, nil
}

func (m *ManagerImpl) runDownloadWorkers(ctx context.Context, items []Item, byURL map[string][]int, opts Options) ([]string, map[int]error) {
	paths := make([]string, len(items))
	failures := make(map[int]error)
	var mu sync.Mutex

	tasks := make(chan string)
	var wg sync.WaitGroup

	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for urlStr := range tasks {
				idx := byURL[urlStr][0]
				path, err := m.fetchOne(ctx, items[idx], opts)
				mu.Lock()
				for _, i := range byURL[urlStr] {
					if err != nil {
						failures[i] = err
					} else {
						paths[i] = path
					}
				}
				mu.Unlock()
			}
		}()
	}

	for _, urlStr := range sortedKeys(byURL) {
		tasks <- urlStr
	}
	close(tasks)
	wg.Wait()
	return paths, failures
}

func (m *ManagerImpl) fetchOne(ctx context.Context, item Item, opts Options) (string, error) {
	if item.URL == nil {
		return "", fmt.Errorf("nil URL: %w", pkgerrors.ErrDownloadFailed)
	}
	absPath := filepath.Join(opts.Dir, selectFilename(item))

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = m.timeout
	}
	task := m.newTask(item, absPath, timeout)

	if !opts.NoReuse {
		if reuse, ok := tryReuseExisting(absPath, item.Checksum); ok {
			logger.Debug("Reusing downloaded file", logger.Fields{"path": reuse})
			m.finish(task, model.TaskCompleted, nil)
			return reuse, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	m.setStatus(task, model.TaskInFlight)
	logger.Debug("Downloading", logger.Fields{"task": task.ID, "url": item.URL.String(), "dest": absPath})

	tmpPath, n, err := m.downloadToTemp(ctx, item, absPath)
	if err != nil {
		err = fmt.Errorf("%s: %w: %w", item.URL, pkgerrors.ErrDownloadFailed, err)
		m.finish(task, failureStatus(ctx), err)
		return "", err
	}
	m.addBytes(task, n)

	if item.Checksum != "" {
		ok, err := verifySHA256(tmpPath, item.Checksum)
		if err == nil && !ok {
			err = fmt.Errorf("checksum mismatch for %s: %w", item.URL, pkgerrors.ErrFileHashMismatch)
		}
		if err != nil {
			_ = os.Remove(tmpPath)
			m.finish(task, model.TaskFailed, err)
			return "", err
		}
	}
	if err := finalizeFile(tmpPath, absPath); err != nil {
		m.finish(task, model.TaskFailed, err)
		return "", err
	}
	m.finish(task, model.TaskCompleted, nil)
	return absPath, nil
}

func (m *ManagerImpl) downloadToTemp(ctx context.Context, item Item, absPath string) (string, int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(absPath), "dl-*.tmp")
	if err != nil {
		return "", 0, pkgerrors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	n, err := m.fetcher.Download(ctx, item.URL.String(), tmp)
	if err != nil {
		cleanup()
		return "", n, err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", n, pkgerrors.Wrap(err, "could not sync file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", n, pkgerrors.Wrap(err, "could not close file")
	}
	return tmpPath, n, nil
}

func failureStatus(ctx context.Context) model.TaskStatus {
	if pkgerrors.Is(ctx.Err(), context.Canceled) {
		return model.TaskCancelled
	}
	return model.TaskFailed
}

func (m *ManagerImpl) newTask(item Item, absPath string, timeout time.Duration) *model.DownloadTask {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	task := &model.DownloadTask{
		ID:              id.String(),
		SourceURL:       item.URL.String(),
		DestinationPath: absPath,
		Deadline:        time.Now().Add(timeout),
		Status:          model.TaskCreated,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = task
	m.order = append(m.order, task.ID)
	return task
}

func (m *ManagerImpl) setStatus(task *model.DownloadTask, status model.TaskStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.Status = status
	if status == model.TaskInFlight {
		task.StartedAt = time.Now()
	}
}

func (m *ManagerImpl) addBytes(task *model.DownloadTask, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.Bytes += n
}

func (m *ManagerImpl) finish(task *model.DownloadTask, status model.TaskStatus, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task.Status.IsFinished() {
		return
	}
	task.Status = status
	task.FinishedAt = time.Now()
	if err != nil {
		task.Err = err.Error()
	}
}

// selectFilename prefers the item's filename, then the last URL path segment,
// then a hash of the URL.
func selectFilename(item Item) string {
	if item.Filename != "" {
		return filepath.Base(item.Filename)
	}
	if base := path.Base(item.URL.Path); base != "." && base != "/" && base != "" {
		return base
	}
	if item.Checksum != "" {
		return normalizeHex(item.Checksum)
	}
	h := sha256.Sum256([]byte(item.URL.String()))
	return hex.EncodeToString(h[:])
}

func tryReuseExisting(absPath, checksum string) (string, bool) {
	if checksum == "" {
		return "", false
	}
	if st, err := os.Stat(absPath); err == nil && st.Size() > 0 {
		ok, err := verifySHA256(absPath, checksum)
		if err == nil && ok {
			return absPath, true
		}
	}
	return "", false
}

func finalizeFile(tmpPath, absPath string) error {
	if err := fsutil.Move(tmpPath, absPath); err != nil {
		return pkgerrors.Wrap(err, "could not finalize file")
	}
	if err := os.Chmod(absPath, fsutil.FileModeSecure); err != nil {
		return pkgerrors.Wrap(err, "could not set permissions")
	}
	return nil
}

func verifySHA256(path string, wantHex string) (bool, error) {
	got, err := fsutil.SHA256File(path)
	if err != nil {
		return false, pkgerrors.Wrap(err, "hashing")
	}
	return got == normalizeHex(wantHex), nil
}

func normalizeHex(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
