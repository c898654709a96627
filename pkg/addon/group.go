package addon

import (
	"strings"

	"github.com/glorpus-work/relictum/pkg/model"
)

// Group folds module folders under their base add-on for display: a folder
// named <Base>-x or <Base>_x is attached to the record whose folder is <Base>
// (DBM-Core under DBM). Chains collapse onto the outermost base. Records
// without a base are returned unchanged, in input order.
func Group(records []model.AddonRecord) []model.AddonRecord {
	parent := make([]int, len(records))
	for i := range records {
		parent[i] = baseOf(records, i)
	}
	root := func(i int) int {
		for steps := 0; parent[i] >= 0 && steps < len(records); steps++ {
			i = parent[i]
		}
		return i
	}

	out := make([]model.AddonRecord, 0, len(records))
	position := make(map[int]int)
	for i := range records {
		if parent[i] >= 0 {
			continue
		}
		r := records[i]
		r.Modules = nil
		position[i] = len(out)
		out = append(out, r)
	}
	for i := range records {
		if parent[i] < 0 {
			continue
		}
		top, ok := position[root(i)]
		if !ok {
			continue
		}
		module := records[i]
		module.Modules = nil
		out[top].Modules = append(out[top].Modules, module)
	}
	return out
}

// baseOf returns the index of the longest other folder that prefixes
// records[i] followed by '-' or '_', or -1.
func baseOf(records []model.AddonRecord, i int) int {
	name := strings.ToLower(records[i].FolderName)
	best, bestLen := -1, 0
	for j, candidate := range records {
		if j == i {
			continue
		}
		base := strings.ToLower(candidate.FolderName)
		if len(base) >= len(name) || len(base) <= bestLen {
			continue
		}
		if !strings.HasPrefix(name, base) {
			continue
		}
		if sep := name[len(base)]; sep == '-' || sep == '_' {
			best, bestLen = j, len(base)
		}
	}
	return best
}

// IsInstalled reports whether entry matches an installed record or module by
// case-insensitive title or by identical non-empty detail URL.
func IsInstalled(records []model.AddonRecord, entry model.CatalogEntry) bool {
	for _, r := range records {
		if matches(r, entry) {
			return true
		}
		for _, m := range r.Modules {
			if matches(m, entry) {
				return true
			}
		}
	}
	return false
}

func matches(r model.AddonRecord, entry model.CatalogEntry) bool {
	if strings.EqualFold(strings.TrimSpace(r.Title), strings.TrimSpace(entry.Title)) {
		return true
	}
	return r.DetailURL != "" && r.DetailURL == entry.DetailURL
}
