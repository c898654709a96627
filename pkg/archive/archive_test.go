package archive_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/relictum/internal/testutil"
	"github.com/glorpus-work/relictum/pkg/archive"
	pkgerrors "github.com/glorpus-work/relictum/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path string
		want archive.Kind
	}{
		{"client.zip", archive.KindZip},
		{"CLIENT.ZIP", archive.KindZip},
		{"client.rar", archive.KindRar},
		{"client.Rar", archive.KindRar},
		{"client.7z", archive.KindUnknown},
		{"client", archive.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, archive.DetectKind(tt.path))
		})
	}
}

func TestSniff(t *testing.T) {
	dir := t.TempDir()
	zipPath := testutil.WriteZip(t, filepath.Join(dir, "download"), map[string]string{"Wow.exe": "MZ"})
	rarPath := filepath.Join(dir, "download-2")
	require.NoError(t, os.WriteFile(rarPath, []byte("Rar!\x1a\x07\x01\x00rest"), 0o644))
	htmlPath := filepath.Join(dir, "page")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<html></html>"), 0o644))
	tiny := filepath.Join(dir, "tiny")
	require.NoError(t, os.WriteFile(tiny, []byte("PK"), 0o644))

	for path, want := range map[string]archive.Kind{
		zipPath:  archive.KindZip,
		rarPath:  archive.KindRar,
		htmlPath: archive.KindUnknown,
		tiny:     archive.KindUnknown,
	} {
		kind, err := archive.Sniff(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, kind, filepath.Base(path))
	}

	_, err := archive.Sniff(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	touch := func(t *testing.T, dir string, names ...string) {
		t.Helper()
		for _, name := range names {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		}
	}

	t.Run("archive file is returned as is", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "game.rar")
		path, kind, err := archive.Select(filepath.Join(dir, "game.rar"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "game.rar"), path)
		assert.Equal(t, archive.KindRar, kind)
	})

	t.Run("zip preferred over rar in a directory", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "a.rar", "c.zip", "b.zip", "notes.txt")
		path, kind, err := archive.Select(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "b.zip"), path)
		assert.Equal(t, archive.KindZip, kind)
	})

	t.Run("rar used when no zip is present", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "z.rar", "m.rar")
		path, kind, err := archive.Select(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "m.rar"), path)
		assert.Equal(t, archive.KindRar, kind)
	})

	t.Run("subdirectories are not scanned", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
		touch(t, filepath.Join(dir, "nested"), "game.zip")
		_, _, err := archive.Select(dir)
		assert.ErrorIs(t, err, pkgerrors.ErrArchiveNotFound)
	})

	t.Run("unsupported file", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "game.7z")
		_, _, err := archive.Select(filepath.Join(dir, "game.7z"))
		assert.ErrorIs(t, err, pkgerrors.ErrArchiveNotFound)
	})

	t.Run("already extracted archive path", func(t *testing.T) {
		_, _, err := archive.Select(filepath.Join(t.TempDir(), "Game.zip"))
		assert.ErrorIs(t, err, pkgerrors.ErrArchiveNotFound)
	})

	t.Run("missing input", func(t *testing.T) {
		_, _, err := archive.Select(filepath.Join(t.TempDir(), "missing"))
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidPath)
	})
}

func TestInProcessStrategy_Extract(t *testing.T) {
	dir := t.TempDir()
	zipPath := testutil.WriteZip(t, filepath.Join(dir, "addon.zip"), map[string]string{
		"Questie/Questie.toc":       "## Title: Questie",
		"Questie/Modules/Quest.lua": "-- lua",
	})
	dest := filepath.Join(dir, "out")

	s := archive.NewInProcessStrategy()
	require.NoError(t, s.Extract(context.Background(), zipPath, dest))

	data, err := os.ReadFile(filepath.Join(dest, "Questie", "Questie.toc"))
	require.NoError(t, err)
	assert.Equal(t, "## Title: Questie", string(data))
	assert.FileExists(t, filepath.Join(dest, "Questie", "Modules", "Quest.lua"))
	assert.Equal(t, "in-process", s.Name())
}

func TestInProcessStrategy_CorruptArchive(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.zip")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not a zip"), 0o644))

	err := archive.NewInProcessStrategy().Extract(context.Background(), bad, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrExtractionFailed)
}

func TestTopLevelDirs(t *testing.T) {
	dir := t.TempDir()
	zipPath := testutil.WriteZip(t, filepath.Join(dir, "pack.zip"), map[string]string{
		"DBM-Core/DBM-Core.toc": "## Title: DBM",
		"DBM-Core/DBM-Core.lua": "-- lua",
		"DBM-GUI/DBM-GUI.toc":   "## Title: GUI",
		"README.txt":            "root file",
	})

	dirs, err := archive.TopLevelDirs(context.Background(), zipPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"DBM-Core", "DBM-GUI"}, dirs)
}
