package fsutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppDirs_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG overrides")
	}
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	cacheDir, err := GetCacheDir()
	require.NoError(t, err)
	dataDir, err := GetDataDir()
	require.NoError(t, err)
	stateDir, err := GetStateDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "cache", AppName), cacheDir)
	assert.Equal(t, filepath.Join(base, "data", AppName), dataDir)
	assert.Equal(t, filepath.Join(dataDir, "state"), stateDir)
}

func TestSafeChildName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"DBM-Core", true},
		{"Questie", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../etc", false},
		{`a\b`, false},
		{"a/b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeChildName(tt.name))
		})
	}
}
