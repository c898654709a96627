// Package archive detects downloaded game and add-on archives and extracts them
// with a strategy chosen per archive kind and host platform.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/relictum/pkg/errors"
)

// Kind identifies a supported archive format.
type Kind string

const (
	KindUnknown Kind = ""
	// KindZip is the general-purpose format, extractable everywhere.
	KindZip Kind = "zip"
	// KindRar is the proprietary format that needs a dedicated extractor.
	KindRar Kind = "rar"
)

var kindsByExt = map[string]Kind{
	".zip": KindZip,
	".rar": KindRar,
}

// selectionOrder is the preference when a directory holds several archives.
var selectionOrder = []Kind{KindZip, KindRar}

// signatures are the leading bytes of each supported format.
var signatures = []struct {
	kind  Kind
	magic []byte
}{
	{KindZip, []byte("PK\x03\x04")},
	{KindZip, []byte("PK\x05\x06")}, // empty archive
	{KindRar, []byte("Rar!\x1a\x07")},
}

// Sniff classifies the file at path by its content. It is used for downloads
// whose URL carries no archive extension.
func Sniff(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 8)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return KindUnknown, err
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(head[:n], sig.magic) {
			return sig.kind, nil
		}
	}
	return KindUnknown, nil
}

// DetectKind classifies path by its extension, case-insensitively.
func DetectKind(path string) Kind {
	return kindsByExt[strings.ToLower(filepath.Ext(path))]
}

// Select finds the archive to extract for input.
// A file with a supported extension is returned as is. For a directory the
// immediate children are scanned; zip wins over rar and within a kind the
// lexicographically first name wins. ErrArchiveNotFound means the input
// should be treated as already-extracted content; that includes an archive
// path that no longer exists because an earlier run deleted it.
func Select(input string) (string, Kind, error) {
	info, err := os.Stat(input)
	if err != nil {
		if os.IsNotExist(err) && DetectKind(input) != KindUnknown {
			return "", KindUnknown, fmt.Errorf("%s: %w", input, errors.ErrArchiveNotFound)
		}
		return "", KindUnknown, fmt.Errorf("%s: %w: %w", input, errors.ErrInvalidPath, err)
	}

	if !info.IsDir() {
		if kind := DetectKind(input); kind != KindUnknown {
			return input, kind, nil
		}
		return "", KindUnknown, fmt.Errorf("%s: %w", input, errors.ErrArchiveNotFound)
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return "", KindUnknown, fmt.Errorf("failed to read %s: %w", input, err)
	}

	first := make(map[Kind]string, len(selectionOrder))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		kind := DetectKind(entry.Name())
		if kind == KindUnknown {
			continue
		}
		// ReadDir returns entries sorted by filename.
		if _, seen := first[kind]; !seen {
			first[kind] = filepath.Join(input, entry.Name())
		}
	}

	for _, kind := range selectionOrder {
		if path, ok := first[kind]; ok {
			return path, kind, nil
		}
	}
	return "", KindUnknown, fmt.Errorf("%s: %w", input, errors.ErrArchiveNotFound)
}

// Stem returns the archive file name without its extension.
func Stem(archivePath string) string {
	base := filepath.Base(archivePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
