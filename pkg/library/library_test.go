package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/relictum/internal/testutil"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/library"
	"github.com/glorpus-work/relictum/pkg/model"
)

func openStore(t *testing.T) *library.Store {
	t.Helper()
	store, err := library.Open(filepath.Join(t.TempDir(), "state", library.FileName))
	require.NoError(t, err)
	return store
}

func TestOpen(t *testing.T) {
	t.Run("missing file yields empty store", func(t *testing.T) {
		store := openStore(t)
		assert.Empty(t, store.List())
	})

	t.Run("relative path rejected", func(t *testing.T) {
		_, err := library.Open("library.json")
		assert.ErrorIs(t, err, errors.ErrInvalidPath)
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), library.FileName)
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		_, err := library.Open(path)
		assert.Error(t, err)
	})
}

func TestSaveAndReload(t *testing.T) {
	gameDir := t.TempDir()
	testutil.WriteTree(t, gameDir, map[string]string{"Wow.exe": "bin"})
	exe := filepath.Join(gameDir, "Wow.exe")

	store := openStore(t)
	_, err := store.Locate("WotLK", exe, "3.3.5.12340")
	require.NoError(t, err)
	require.NoError(t, store.Save())

	reloaded, err := library.Open(store.Path())
	require.NoError(t, err)
	entry, ok := reloaded.Get(model.GameWotLK)
	require.True(t, ok)
	assert.Equal(t, exe, entry.InstallPath)
	assert.Equal(t, "3.3.5.12340", entry.DetectedVersion)
	assert.False(t, entry.AddedAt.IsZero())
}

func TestRecordInstallNeverOverwrites(t *testing.T) {
	userDir := t.TempDir()
	installDir := t.TempDir()
	store := openStore(t)

	_, err := store.Locate(model.GameTBC, userDir, "")
	require.NoError(t, err)

	entry, added, err := store.RecordInstall(model.GameTBC, installDir, "")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, userDir, entry.InstallPath)

	entry, added, err = store.RecordInstall(model.GameClassic, installDir, "1.12.1")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, installDir, entry.InstallPath)
}

func TestLocateValidation(t *testing.T) {
	store := openStore(t)

	_, err := store.Locate("cata", t.TempDir(), "")
	assert.ErrorIs(t, err, errors.ErrGameNotFound)

	_, err = store.Locate(model.GameWotLK, filepath.Join(t.TempDir(), "missing"), "")
	assert.ErrorIs(t, err, errors.ErrInvalidPath)

	_, err = store.Locate(model.GameWotLK, "  ", "")
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}

func TestListOrderAndForget(t *testing.T) {
	store := openStore(t)
	for _, id := range []string{model.GameWotLK, model.GameClassic, model.GameTBC} {
		_, err := store.Locate(id, t.TempDir(), "")
		require.NoError(t, err)
	}

	var ids []string
	for _, e := range store.List() {
		ids = append(ids, e.GameID)
	}
	assert.Equal(t, []string{model.GameClassic, model.GameTBC, model.GameWotLK}, ids)

	assert.True(t, store.Forget("TBC"))
	assert.False(t, store.Forget(model.GameTBC))
	_, err := store.MustGet(model.GameTBC)
	assert.ErrorIs(t, err, errors.ErrGameNotInLibrary)
	assert.Len(t, store.List(), 2)
}

func TestSetVersion(t *testing.T) {
	store := openStore(t)
	assert.False(t, store.SetVersion(model.GameWotLK, "3.3.5"))

	_, err := store.Locate(model.GameWotLK, t.TempDir(), "")
	require.NoError(t, err)
	assert.True(t, store.SetVersion(model.GameWotLK, "3.3.5"))
	entry, _ := store.Get(model.GameWotLK)
	assert.Equal(t, "3.3.5", entry.DetectedVersion)
}

func TestGameDir(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"Wow.exe": "bin"})

	assert.Equal(t, dir, library.GameDir(dir))
	assert.Equal(t, dir, library.GameDir(filepath.Join(dir, "Wow.exe")))
}
