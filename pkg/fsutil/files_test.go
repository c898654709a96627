package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), DirModeDefault))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
}

// crossDevice makes every rename fail as if src and dst were on different
// drives.
func crossDevice(t *testing.T) {
	t.Helper()
	rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { rename = os.Rename })
}

func TestMove_FinalizesDownload(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, ".client.zip-123.tmp")
	final := filepath.Join(dir, "client.zip")
	writeFile(t, tmp, "zip bytes", FileModeDefault)
	writeFile(t, final, "stale", FileModeDefault)

	require.NoError(t, Move(tmp, final))

	assert.NoFileExists(t, tmp)
	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "zip bytes", string(data))
}

func TestMove_GameFolderSameDevice(t *testing.T) {
	src := filepath.Join(t.TempDir(), "Wrath")
	writeFile(t, filepath.Join(src, "Wow.exe"), "MZ", FileModeDefault)
	dst := filepath.Join(t.TempDir(), "Games", "Wrath")

	require.NoError(t, Move(src, dst))
	assert.NoDirExists(t, src)
	assert.FileExists(t, filepath.Join(dst, "Wow.exe"))
}

func TestMove_GameFolderAcrossDevices(t *testing.T) {
	crossDevice(t)

	src := filepath.Join(t.TempDir(), "Wrath")
	writeFile(t, filepath.Join(src, "Wow.exe"), "MZ", 0o755)
	writeFile(t, filepath.Join(src, "Data", "enUS", "realmlist.wtf"), "set realmlist logon.example.org", FileModeDefault)
	require.NoError(t, os.MkdirAll(filepath.Join(src, "Interface", "AddOns"), DirModeDefault))
	stamp := time.Date(2010, 6, 22, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(src, "Wow.exe"), stamp, stamp))

	dst := filepath.Join(t.TempDir(), "D", "Wrath")
	require.NoError(t, Move(src, dst))

	assert.NoDirExists(t, src)
	assert.DirExists(t, filepath.Join(dst, "Interface", "AddOns"))
	data, err := os.ReadFile(filepath.Join(dst, "Data", "enUS", "realmlist.wtf"))
	require.NoError(t, err)
	assert.Equal(t, "set realmlist logon.example.org", string(data))

	info, err := os.Stat(filepath.Join(dst, "Wow.exe"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp))
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

func TestMove_SymlinkRecreatedAcrossDevices(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated rights on windows")
	}
	crossDevice(t)

	src := filepath.Join(t.TempDir(), "Classic")
	writeFile(t, filepath.Join(src, "WoW.exe"), "MZ", FileModeDefault)
	require.NoError(t, os.Symlink("WoW.exe", filepath.Join(src, "launcher")))

	dst := filepath.Join(t.TempDir(), "Classic")
	require.NoError(t, Move(src, dst))

	link, err := os.Readlink(filepath.Join(dst, "launcher"))
	require.NoError(t, err)
	assert.Equal(t, "WoW.exe", link)
}

func TestMove_FileAcrossDevices(t *testing.T) {
	crossDevice(t)

	src := filepath.Join(t.TempDir(), "client.zip")
	writeFile(t, src, "zip bytes", FileModeDefault)
	dst := filepath.Join(t.TempDir(), "archives", "client.zip")

	require.NoError(t, Move(src, dst))
	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)
}

func TestMove_OtherRenameErrorsAreReturned(t *testing.T) {
	rename = func(string, string) error { return &os.LinkError{Op: "rename", Err: syscall.EACCES} }
	t.Cleanup(func() { rename = os.Rename })

	src := filepath.Join(t.TempDir(), "Wow.exe")
	writeFile(t, src, "MZ", FileModeDefault)

	err := Move(src, filepath.Join(t.TempDir(), "Wow.exe"))
	require.Error(t, err)
	assert.ErrorIs(t, err, syscall.EACCES)
	assert.FileExists(t, src, "source untouched")
}

func TestMove_InvalidArguments(t *testing.T) {
	assert.Error(t, Move("", "x"))
	assert.Error(t, Move("x", ""))
	assert.Error(t, Move(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "dst")))
}

func TestIsCrossDevice(t *testing.T) {
	assert.True(t, isCrossDevice(&os.LinkError{Op: "rename", Err: syscall.EXDEV}))
	assert.False(t, isCrossDevice(&os.LinkError{Op: "rename", Err: syscall.ENOENT}))
	assert.False(t, isCrossDevice(os.ErrPermission))
}

func TestCreateFilePerm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Wow.exe")

	f, err := CreateFilePerm(path, 0o755)
	require.NoError(t, err)
	_, err = f.WriteString("MZ")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MZ", string(data))
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

func TestSHA256File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Wow.exe")
	require.NoError(t, os.WriteFile(path, []byte("abc"), FileModeDefault))

	sum, err := SHA256File(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)

	_, err = SHA256File(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "state.json")

	require.NoError(t, WriteFileAtomic(target, []byte(`{"a":1}`), FileModeSecure))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	require.NoError(t, WriteFileAtomic(target, []byte(`{"a":2}`), FileModeSecure))
	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}
