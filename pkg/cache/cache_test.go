package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/relictum/pkg/cache"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
)

func TestNewDefaultManager(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	mgr, err := cache.NewDefaultManager()
	require.NoError(t, err)
	require.NotNil(t, mgr)

	userCacheDir, err := os.UserCacheDir()
	require.NoError(t, err)

	expectedDir := filepath.Join(userCacheDir, "relictum")
	assert.Equal(t, expectedDir, mgr.GetDirectory())
	assert.Equal(t, filepath.Join(expectedDir, cache.DownloadsDir), mgr.DownloadDir())
	assert.Equal(t, filepath.Join(expectedDir, cache.AddonsDir), mgr.AddonDir())
}

func TestSetDirectory(t *testing.T) {
	tests := []struct {
		name        string
		directory   string
		expectError bool
	}{
		{
			name:      "valid directory",
			directory: t.TempDir(),
		},
		{
			name:        "empty directory",
			directory:   "",
			expectError: true,
		},
		{
			name:      "non-existent directory",
			directory: filepath.Join(t.TempDir(), "nonexistent"),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mgr := cache.NewManager(t.TempDir())

			err := mgr.SetDirectory(testCase.directory)

			if testCase.expectError {
				assert.ErrorIs(t, err, errors.ErrCacheDirectory)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testCase.directory, mgr.GetDirectory())
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name          string
		options       cache.CleanOptions
		downloadsGone bool
		addonsGone    bool
	}{
		{name: "all", options: cache.CleanOptions{All: true}, downloadsGone: true, addonsGone: true},
		{name: "no flags means all", options: cache.CleanOptions{}, downloadsGone: true, addonsGone: true},
		{name: "downloads only", options: cache.CleanOptions{Downloads: true}, downloadsGone: true},
		{name: "addons only", options: cache.CleanOptions{Addons: true}, addonsGone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			setupTestCache(t, tempDir)
			mgr := cache.NewManager(tempDir)

			result, err := mgr.Clean(tt.options)
			require.NoError(t, err)

			downloadFile := filepath.Join(mgr.DownloadDir(), "client.zip")
			addonFile := filepath.Join(mgr.AddonDir(), "Questie.zip")
			if tt.downloadsGone {
				assert.NoFileExists(t, downloadFile)
				assert.DirExists(t, mgr.DownloadDir(), "directory is recreated")
				assert.Equal(t, int64(len("client archive")), result.DownloadFreed)
			} else {
				assert.FileExists(t, downloadFile)
				assert.Zero(t, result.DownloadFreed)
			}
			if tt.addonsGone {
				assert.NoFileExists(t, addonFile)
				assert.Equal(t, int64(len("addon package")), result.AddonFreed)
			} else {
				assert.FileExists(t, addonFile)
				assert.Zero(t, result.AddonFreed)
			}
			assert.Equal(t, result.DownloadFreed+result.AddonFreed, result.TotalFreed)
		})
	}
}

func TestCleanNonExistentDirectories(t *testing.T) {
	mgr := cache.NewManager(t.TempDir())

	result, err := mgr.Clean(cache.CleanOptions{All: true})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.TotalFreed)
}

func TestGetInfo(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)

	info, err := cache.NewManager(tempDir).GetInfo()
	require.NoError(t, err)

	assert.Equal(t, tempDir, info.Directory)
	assert.Equal(t, int64(len("client archive")), info.DownloadSize)
	assert.Equal(t, int64(len("addon package")), info.AddonSize)
	assert.Equal(t, info.DownloadSize+info.AddonSize, info.TotalSize)
	assert.Equal(t, 1, info.DownloadFiles)
	assert.Equal(t, 1, info.AddonFiles)
	assert.False(t, info.LastModified.IsZero())
}

func TestGetInfoMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nonexistent")

	info, err := cache.NewManager(dir).GetInfo()
	require.NoError(t, err)
	assert.Equal(t, dir, info.Directory)
	assert.Equal(t, int64(0), info.TotalSize)
	assert.True(t, info.LastModified.IsZero())
}

func TestClearGame(t *testing.T) {
	gameDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(gameDir, "WDB", "enUS"), fsutil.DirModeDefault))
	require.NoError(t, os.WriteFile(filepath.Join(gameDir, "WDB", "enUS", "creaturecache.wdb"), []byte("12345"), fsutil.FileModeDefault))
	require.NoError(t, os.WriteFile(filepath.Join(gameDir, "Wow.exe"), []byte("bin"), fsutil.FileModeDefault))

	result, err := cache.ClearGame(gameDir)
	require.NoError(t, err)
	assert.True(t, result.Cleared)
	assert.Equal(t, int64(5), result.Freed)
	assert.Equal(t, []string{"WDB"}, result.Removed)
	assert.NoDirExists(t, filepath.Join(gameDir, "WDB"))
	assert.FileExists(t, filepath.Join(gameDir, "Wow.exe"))

	result, err = cache.ClearGame(gameDir)
	require.NoError(t, err)
	assert.False(t, result.Cleared, "second clear finds nothing")

	_, err = cache.ClearGame(filepath.Join(gameDir, "missing"))
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}

func setupTestCache(t *testing.T, baseDir string) {
	t.Helper()
	files := map[string]string{
		filepath.Join(baseDir, cache.DownloadsDir, "client.zip"): "client archive",
		filepath.Join(baseDir, cache.AddonsDir, "Questie.zip"):   "addon package",
	}
	for path, content := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), fsutil.DirModeSecure))
		require.NoError(t, os.WriteFile(path, []byte(content), fsutil.FileModeDefault))
	}
}

func TestOperation_Clean(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)
	op := cache.NewOperation(cache.NewManager(tempDir))

	msg, err := op.Clean(false, true, false)
	require.NoError(t, err)
	assert.Contains(t, msg, "Successfully cleaned cache")
	assert.Contains(t, msg, "- Downloads: 14 B")
	assert.NotContains(t, msg, "Addons:")

	msg, err = op.Clean(false, true, false)
	require.NoError(t, err)
	assert.Equal(t, "No files were removed from the cache.", msg)
}

func TestOperation_GetInfo(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)
	op := cache.NewOperation(cache.NewManager(tempDir))

	info, err := op.GetInfo()
	require.NoError(t, err)
	assert.Contains(t, info, "Cache Information:")
	assert.Contains(t, info, "Downloads:")
	assert.Contains(t, info, "Addons:")
	assert.Contains(t, info, tempDir)
	assert.Equal(t, tempDir, op.GetDirectory())
}

func TestOperation_ClearGame(t *testing.T) {
	gameDir := t.TempDir()
	op := cache.NewOperation(cache.NewManager(t.TempDir()))

	msg, err := op.ClearGame(gameDir)
	require.NoError(t, err)
	assert.Equal(t, "Game cache is already empty.", msg)

	require.NoError(t, os.MkdirAll(filepath.Join(gameDir, "Cache"), fsutil.DirModeDefault))
	msg, err = op.ClearGame(gameDir)
	require.NoError(t, err)
	assert.Equal(t, "Cleared Cache (0 B).", msg)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", cache.FormatBytes(512))
	assert.Equal(t, "1.5 KB", cache.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", cache.FormatBytes(2<<20))
}
