package addon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/relictum/pkg/fsutil"
)

// IndexFileName is the sidecar that remembers where catalog installs came from.
const IndexFileName = ".relictum-addons.json"

type indexEntry struct {
	Title       string    `json:"title,omitempty"`
	DetailURL   string    `json:"detail_url"`
	InstalledAt time.Time `json:"installed_at"`
}

// index maps lower-cased folder names to their catalog origin.
type index struct {
	FormatVersion string                `json:"format_version"`
	Addons        map[string]indexEntry `json:"addons"`
}

func loadIndex(addonDir string) (*index, error) {
	idx := &index{FormatVersion: "1", Addons: make(map[string]indexEntry)}
	data, err := os.ReadFile(filepath.Join(addonDir, IndexFileName))
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read addon index: %w", err)
	}
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("failed to parse addon index: %w", err)
	}
	if idx.Addons == nil {
		idx.Addons = make(map[string]indexEntry)
	}
	return idx, nil
}

func (idx *index) save(addonDir string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal addon index: %w", err)
	}
	return fsutil.WriteFileAtomic(filepath.Join(addonDir, IndexFileName), data, fsutil.FileModeDefault)
}

func (idx *index) record(folders []string, title, detailURL string) {
	now := time.Now()
	for _, folder := range folders {
		idx.Addons[strings.ToLower(folder)] = indexEntry{Title: title, DetailURL: detailURL, InstalledAt: now}
	}
}

func (idx *index) forget(folder string) bool {
	key := strings.ToLower(folder)
	if _, ok := idx.Addons[key]; !ok {
		return false
	}
	delete(idx.Addons, key)
	return true
}

func (idx *index) detailURL(folder string) string {
	return idx.Addons[strings.ToLower(folder)].DetailURL
}
