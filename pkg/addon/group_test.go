package addon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/relictum/pkg/addon"
	"github.com/glorpus-work/relictum/pkg/model"
)

func records(names ...string) []model.AddonRecord {
	out := make([]model.AddonRecord, 0, len(names))
	for _, n := range names {
		out = append(out, model.AddonRecord{FolderName: n, Title: n})
	}
	return out
}

func TestGroup(t *testing.T) {
	grouped := addon.Group(records("Bagnon", "DBM", "DBM-Core", "DBM-Party-BC", "DBM-Party", "Questie-335", "Bagnon_Config"))

	require.Len(t, grouped, 3)
	assert.Equal(t, "Bagnon", grouped[0].FolderName)
	require.Len(t, grouped[0].Modules, 1)
	assert.Equal(t, "Bagnon_Config", grouped[0].Modules[0].FolderName)

	assert.Equal(t, "DBM", grouped[1].FolderName)
	var modules []string
	for _, m := range grouped[1].Modules {
		modules = append(modules, m.FolderName)
	}
	assert.Equal(t, []string{"DBM-Core", "DBM-Party-BC", "DBM-Party"}, modules)

	assert.Equal(t, "Questie-335", grouped[2].FolderName, "no base folder, stays top-level")
	assert.Empty(t, grouped[2].Modules)
}

func TestGroupEmpty(t *testing.T) {
	assert.Empty(t, addon.Group(nil))
}

func TestIsInstalled(t *testing.T) {
	installed := addon.Group([]model.AddonRecord{
		{FolderName: "DBM", Title: "Deadly Boss Mods"},
		{FolderName: "DBM-Core", Title: "DBM Core", DetailURL: "https://warperia.com/addon-wotlk/dbm/"},
		{FolderName: "Questie", Title: "Questie"},
	})

	tests := []struct {
		name  string
		entry model.CatalogEntry
		want  bool
	}{
		{name: "title case-insensitive", entry: model.CatalogEntry{Title: "questie"}, want: true},
		{name: "detail url on module", entry: model.CatalogEntry{Title: "DBM (WotLK)", DetailURL: "https://warperia.com/addon-wotlk/dbm/"}, want: true},
		{name: "not installed", entry: model.CatalogEntry{Title: "Bagnon", DetailURL: "https://warperia.com/addon-wotlk/bagnon/"}},
		{name: "empty detail url never matches", entry: model.CatalogEntry{Title: "Other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addon.IsInstalled(installed, tt.entry))
		})
	}
}
