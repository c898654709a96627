package addon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/relictum/internal/testutil"
)

func TestParseTOC(t *testing.T) {
	toc, err := ParseTOC(strings.NewReader(`## Interface: 30300
## Title: |cff00ff00Deadly|r Boss Mods
## Author:  Tandanu
## Version: 4.52
## Title: Ignored second title
#  Not a field
MyAddon.lua
`))
	require.NoError(t, err)
	assert.Equal(t, TOC{Title: "Deadly Boss Mods", Author: "Tandanu", Version: "4.52"}, toc)
}

func TestStripColorCodes(t *testing.T) {
	tests := map[string]string{
		"Plain":                              "Plain",
		"|cffff0000Red|r and |cFF00FF00G|r": "Red and G",
		"|cffffffffUnclosed":                 "|cffffffffUnclosed",
		"  |cff123456Padded|r  ":             "Padded",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripColorCodes(in), in)
	}
}

func TestReadRecord(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"Questie/Questie.toc":         "## Title: Questie\n## Version: 7.0",
		"Questie/Questie-Classic.toc": "## Title: Wrong one",
		"Bagnon/Bagnon_Config.toc":    "## Title: Bagnon Config",
		"Bagnon/Bagnon_Alpha.toc":     "## Title: Bagnon Alpha",
		"NoToc/core.lua":              "-- lua",
	})

	assert.Equal(t, "Questie", readRecord(dir, "Questie").Title)
	assert.Equal(t, "7.0", readRecord(dir, "Questie").Version)
	assert.Equal(t, "Bagnon Alpha", readRecord(dir, "Bagnon").Title)
	assert.Equal(t, "NoToc", readRecord(dir, "NoToc").Title)
}
