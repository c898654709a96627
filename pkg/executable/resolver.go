// Package executable locates the game binary inside extracted content.
package executable

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/fsutil"
)

// DefaultNames are the recognized binaries in priority order: the primary
// client binary first, then the launcher-style alternative.
var DefaultNames = []string{"Wow.exe", "World of Warcraft.exe"}

const (
	// DefaultMaxDepth bounds how many directory levels below a root are searched.
	DefaultMaxDepth = 8
	// DefaultMaxEntries bounds the number of directory entries inspected per root.
	DefaultMaxEntries = 50000
)

// Resolver searches directory trees for a game executable.
type Resolver struct {
	Names      []string
	MaxDepth   int
	MaxEntries int
}

// NewResolver creates a Resolver for DefaultNames plus extraNames, which are
// tried after the defaults.
func NewResolver(maxDepth int, extraNames ...string) *Resolver {
	names := append(append([]string{}, DefaultNames...), extraNames...)
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{Names: names, MaxDepth: maxDepth, MaxEntries: DefaultMaxEntries}
}

// Resolve returns the first executable found under roots, tried in order.
// When nothing matches it returns the first root and false.
func (r *Resolver) Resolve(roots ...string) (string, bool) {
	for _, root := range roots {
		if root == "" {
			continue
		}
		if path, ok := r.Find(root); ok {
			return path, true
		}
	}
	if len(roots) == 0 {
		return "", false
	}
	return roots[0], false
}

// Find searches root depth-first. Within one directory a name earlier in
// Names beats a later one; subdirectories are visited in name order and
// hidden or symlinked directories are skipped. An exhausted depth or entry
// budget ends the search as not found.
func (r *Resolver) Find(root string) (string, bool) {
	info, err := os.Stat(root)
	if err != nil {
		return "", false
	}
	if !info.IsDir() {
		if r.rank(filepath.Base(root)) >= 0 {
			return root, true
		}
		return "", false
	}

	s := &search{resolver: r, budget: r.maxEntries()}
	path, ok := s.walk(root, 0)
	if !ok && s.budget <= 0 {
		logger.Warn("Executable search stopped early", logger.Fields{"root": root, "max_entries": r.maxEntries()})
	}
	return path, ok
}

// rank returns the priority index of name in Names, or -1.
func (r *Resolver) rank(name string) int {
	for i, candidate := range r.names() {
		if strings.EqualFold(name, candidate) {
			return i
		}
	}
	return -1
}

func (r *Resolver) names() []string {
	if len(r.Names) == 0 {
		return DefaultNames
	}
	return r.Names
}

func (r *Resolver) maxEntries() int {
	if r.MaxEntries <= 0 {
		return DefaultMaxEntries
	}
	return r.MaxEntries
}

func (r *Resolver) maxDepth() int {
	if r.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return r.MaxDepth
}

type search struct {
	resolver *Resolver
	budget   int
}

func (s *search) walk(dir string, depth int) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debug("Skipping unreadable directory", logger.Fields{"dir": dir, "error": err})
		return "", false
	}

	best, bestRank := "", -1
	var subdirs []string
	for _, entry := range entries {
		if s.budget <= 0 {
			return "", false
		}
		s.budget--

		switch {
		case entry.Type()&os.ModeSymlink != 0:
			// Links are never followed; a linked file still counts as a match.
			if rank := s.resolver.rank(entry.Name()); rank >= 0 && !fsutil.IsDir(filepath.Join(dir, entry.Name())) {
				if bestRank < 0 || rank < bestRank {
					best, bestRank = filepath.Join(dir, entry.Name()), rank
				}
			}
		case entry.IsDir():
			if !fsutil.IsHidden(entry.Name()) {
				subdirs = append(subdirs, entry.Name())
			}
		default:
			if rank := s.resolver.rank(entry.Name()); rank >= 0 && (bestRank < 0 || rank < bestRank) {
				best, bestRank = filepath.Join(dir, entry.Name()), rank
			}
		}
	}
	if bestRank >= 0 {
		return best, true
	}

	if depth >= s.resolver.maxDepth() {
		return "", false
	}
	for _, name := range subdirs {
		if path, ok := s.walk(filepath.Join(dir, name), depth+1); ok {
			return path, true
		}
	}
	return "", false
}
