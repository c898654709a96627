// Package library provides a JSON-backed store of where each game generation
// is installed.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	"github.com/glorpus-work/relictum/pkg/model"
)

// FileName is the library file inside the state directory.
const FileName = "library.json"

// Store is the library database. It holds at most one entry per game id.
type Store struct {
	FormatVersion string                `json:"format_version"`
	LastUpdate    time.Time             `json:"last_update"`
	Entries       []*model.LibraryEntry `json:"entries"`

	path    string
	rwMutex sync.RWMutex
}

// DefaultPath returns <state dir>/library.json.
func DefaultPath() (string, error) {
	stateDir, err := fsutil.GetStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, FileName), nil
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("library path must be absolute: %s: %w", path, errors.ErrInvalidPath)
	}
	store := &Store{
		FormatVersion: "1",
		Entries:       make([]*model.LibraryEntry, 0, len(model.Games())),
		path:          cleanPath,
	}

	data, err := os.ReadFile(cleanPath)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open library file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return store, nil
	}
	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("failed to parse library file %s: %w", cleanPath, err)
	}
	if store.Entries == nil {
		store.Entries = make([]*model.LibraryEntry, 0)
	}
	return store, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Save writes the store atomically.
func (s *Store) Save() error {
	s.rwMutex.RLock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.rwMutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal library to JSON: %w", err)
	}
	return fsutil.WriteFileAtomic(s.path, data, fsutil.FileModeSecure)
}

// Get returns the entry for gameID.
func (s *Store) Get(gameID string) (model.LibraryEntry, bool) {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()
	if e := s.find(gameID); e != nil {
		return *e, true
	}
	return model.LibraryEntry{}, false
}

// MustGet is Get with ErrGameNotInLibrary for a missing entry.
func (s *Store) MustGet(gameID string) (model.LibraryEntry, error) {
	entry, ok := s.Get(gameID)
	if !ok {
		return model.LibraryEntry{}, fmt.Errorf("%s: %w", gameID, errors.ErrGameNotInLibrary)
	}
	return entry, nil
}

// List returns all entries in game release order.
func (s *Store) List() []model.LibraryEntry {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()

	order := make(map[string]int)
	for i, id := range model.GameIDs() {
		order[id] = i
	}
	out := make([]model.LibraryEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool { return order[out[i].GameID] < order[out[j].GameID] })
	return out
}

// Locate points gameID at installPath, replacing any previous entry. This is
// the user-driven path; installs go through RecordInstall.
func (s *Store) Locate(gameID, installPath, version string) (model.LibraryEntry, error) {
	game, err := model.LookupGame(gameID)
	if err != nil {
		return model.LibraryEntry{}, err
	}
	abs, err := checkPath(installPath)
	if err != nil {
		return model.LibraryEntry{}, err
	}

	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()
	entry := &model.LibraryEntry{GameID: game.ID, InstallPath: abs, DetectedVersion: version, AddedAt: time.Now()}
	if existing := s.find(game.ID); existing != nil {
		*existing = *entry
	} else {
		s.Entries = append(s.Entries, entry)
	}
	s.LastUpdate = time.Now()
	return *entry, nil
}

// RecordInstall adds an entry for gameID only if none exists. It never
// overwrites a user-chosen install path. added reports whether the store changed.
func (s *Store) RecordInstall(gameID, installPath, version string) (entry model.LibraryEntry, added bool, err error) {
	game, err := model.LookupGame(gameID)
	if err != nil {
		return model.LibraryEntry{}, false, err
	}
	abs, err := checkPath(installPath)
	if err != nil {
		return model.LibraryEntry{}, false, err
	}

	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()
	if existing := s.find(game.ID); existing != nil {
		return *existing, false, nil
	}
	created := &model.LibraryEntry{GameID: game.ID, InstallPath: abs, DetectedVersion: version, AddedAt: time.Now()}
	s.Entries = append(s.Entries, created)
	s.LastUpdate = time.Now()
	return *created, true, nil
}

// SetVersion updates the detected version of an existing entry.
func (s *Store) SetVersion(gameID, version string) bool {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()
	e := s.find(gameID)
	if e == nil {
		return false
	}
	e.DetectedVersion = version
	s.LastUpdate = time.Now()
	return true
}

// Forget removes the entry for gameID. Files on disk are untouched.
func (s *Store) Forget(gameID string) bool {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()
	id := strings.ToLower(gameID)
	for i, e := range s.Entries {
		if e.GameID == id {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			s.LastUpdate = time.Now()
			return true
		}
	}
	return false
}

func (s *Store) find(gameID string) *model.LibraryEntry {
	id := strings.ToLower(gameID)
	for _, e := range s.Entries {
		if e.GameID == id {
			return e
		}
	}
	return nil
}

// GameDir returns the game's root directory for an install path: the parent
// of an executable, or the path itself when it is a directory.
func GameDir(installPath string) string {
	if fsutil.IsDir(installPath) {
		return installPath
	}
	return filepath.Dir(installPath)
}

func checkPath(installPath string) (string, error) {
	if strings.TrimSpace(installPath) == "" {
		return "", fmt.Errorf("install path is empty: %w", errors.ErrInvalidPath)
	}
	abs, err := filepath.Abs(installPath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", installPath, errors.ErrInvalidPath)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("%s does not exist: %w", abs, errors.ErrInvalidPath)
	}
	return abs, nil
}
