package addon

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/glorpus-work/relictum/pkg/model"
)

// TOCExtension is the add-on descriptor extension.
const TOCExtension = ".toc"

var colorCode = regexp.MustCompile(`\|c[0-9a-fA-F]{8}(.*?)\|r`)

// TOC holds the descriptor fields relictum reads.
type TOC struct {
	Title   string
	Author  string
	Version string
}

// ParseTOC reads "## Key: value" lines. Unknown keys are ignored and the
// first occurrence of a key wins.
func ParseTOC(r io.Reader) (TOC, error) {
	var toc TOC
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "##") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "##")), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Title":
			if toc.Title == "" {
				toc.Title = StripColorCodes(value)
			}
		case "Author":
			if toc.Author == "" {
				toc.Author = value
			}
		case "Version":
			if toc.Version == "" {
				toc.Version = value
			}
		}
	}
	return toc, scanner.Err()
}

// StripColorCodes removes |cAARRGGBB...|r escapes, keeping the inner text.
func StripColorCodes(s string) string {
	return strings.TrimSpace(colorCode.ReplaceAllString(s, "$1"))
}

// findTOC returns <folder>/<folder>.toc, else the first .toc in sorted order.
func findTOC(dir, folder string) string {
	preferred := filepath.Join(dir, folder+TOCExtension)
	if info, err := os.Stat(preferred); err == nil && !info.IsDir() {
		return preferred
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), TOCExtension) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0])
}

// readRecord builds the record for one add-on folder. A missing or broken
// descriptor leaves the folder name as title.
func readRecord(addonDir, folder string) model.AddonRecord {
	record := model.AddonRecord{FolderName: folder, Title: folder}
	tocPath := findTOC(filepath.Join(addonDir, folder), folder)
	if tocPath == "" {
		return record
	}
	f, err := os.Open(tocPath)
	if err != nil {
		return record
	}
	defer func() { _ = f.Close() }()

	toc, err := ParseTOC(f)
	if err != nil {
		return record
	}
	if toc.Title != "" {
		record.Title = toc.Title
	}
	record.Author = toc.Author
	record.Version = toc.Version
	return record
}
