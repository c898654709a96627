package installer_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/relictum/internal/testutil"
	"github.com/glorpus-work/relictum/pkg/archive"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/executable"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	"github.com/glorpus-work/relictum/pkg/hooks"
	"github.com/glorpus-work/relictum/pkg/installer"
	mock_installer "github.com/glorpus-work/relictum/pkg/installer/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func realPipeline(h installer.Hooks) *installer.Pipeline {
	extractor := archive.NewExtractor(&archive.Selector{OS: "linux"})
	return installer.New(extractor, executable.NewResolver(0), nil, h)
}

func TestInstall_ZipWithNamedFolder(t *testing.T) {
	downloads := t.TempDir()
	dest := t.TempDir()
	zipPath := testutil.WriteZip(t, filepath.Join(downloads, "Wrath.zip"), map[string]string{
		"Wrath/Wow.exe":          "binary",
		"Wrath/Data/common.MPQ":  "data",
		"Wrath/Interface/readme": "x",
	})

	var phases []string
	p := realPipeline(installer.Hooks{OnEvent: func(e installer.Event) { phases = append(phases, e.Phase) }})

	res, err := p.Install(context.Background(), zipPath, dest, installer.Options{GameID: "wotlk"})
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.Equal(t, filepath.Join(dest, "Wrath"), res.ContentRoot)
	assert.Equal(t, filepath.Join(dest, "Wrath", "Wow.exe"), res.ExecutablePath)
	assert.Equal(t, zipPath, res.Archive)
	assert.True(t, res.ArchiveDeleted)
	assert.False(t, fsutil.IsFile(zipPath), "archive should be deleted")
	assert.Equal(t, []string{"extracting", "resolving", "done"}, phases)
}

func TestInstall_RepeatedOnDeletedArchive(t *testing.T) {
	downloads := t.TempDir()
	dest := t.TempDir()
	zipPath := testutil.WriteZip(t, filepath.Join(downloads, "Game.zip"), map[string]string{"Game/Wow.exe": "binary"})
	p := realPipeline(installer.Hooks{})

	first, err := p.Install(context.Background(), zipPath, dest, installer.Options{GameID: "wotlk"})
	require.NoError(t, err)
	require.False(t, fsutil.IsFile(zipPath))

	second, err := p.Install(context.Background(), zipPath, dest, installer.Options{GameID: "wotlk"})
	require.NoError(t, err)
	assert.True(t, second.Found)
	assert.Equal(t, first.ExecutablePath, second.ExecutablePath)
	assert.Equal(t, filepath.Join(dest, "Game"), second.ContentRoot)
	assert.Empty(t, second.Archive)
}

func TestInstall_DirectoryWithoutArchive(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{"Client/Wow.exe": "binary"})

	res, err := realPipeline(installer.Hooks{}).Install(context.Background(), src, dest, installer.Options{})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, src, res.ContentRoot)
	assert.Equal(t, filepath.Join(src, "Client", "Wow.exe"), res.ExecutablePath)
	assert.Empty(t, res.Archive)
}

func TestInstall_ExecutableMissingIsNotFatal(t *testing.T) {
	downloads := t.TempDir()
	dest := t.TempDir()
	zipPath := testutil.WriteZip(t, filepath.Join(downloads, "Data.zip"), map[string]string{
		"readme.txt": "nothing to run",
	})

	res, err := realPipeline(installer.Hooks{}).Install(context.Background(), zipPath, dest, installer.Options{})
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, dest, res.ContentRoot)
	assert.Equal(t, dest, res.ExecutablePath)
}

func TestInstall_SkipExtraction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dest := t.TempDir()
	extractor := mock_installer.NewMockExtractor(ctrl)
	finder := mock_installer.NewMockExecutableFinder(ctrl)
	finder.EXPECT().Resolve(dest, dest).Return(filepath.Join(dest, "Wow.exe"), true)

	p := installer.New(extractor, finder, nil, installer.Hooks{})
	res, err := p.Install(context.Background(), filepath.Join(dest, "missing.zip"), dest, installer.Options{SkipExtraction: true})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, dest, res.ContentRoot)
}

func TestInstall_ExtractionFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dest := t.TempDir()
	extractErr := &errors.ExtractionError{Archive: "game.rar", Strategy: "7z", ExitCode: 2}
	extractor := mock_installer.NewMockExtractor(ctrl)
	extractor.EXPECT().Extract(gomock.Any(), "game.rar", dest).Return(archive.Result{Archive: "game.rar"}, extractErr)
	finder := mock_installer.NewMockExecutableFinder(ctrl)

	var last installer.Event
	p := installer.New(extractor, finder, nil, installer.Hooks{OnEvent: func(e installer.Event) { last = e }})
	_, err := p.Install(context.Background(), "game.rar", dest, installer.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrExtractionFailed)
	assert.Equal(t, "error", last.Phase)
	assert.False(t, p.Busy(dest), "guard must be released after failure")
}

func TestInstall_RejectsOverlappingDestination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dest := t.TempDir()
	started := make(chan struct{})
	release := make(chan struct{})

	extractor := mock_installer.NewMockExtractor(ctrl)
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), dest).DoAndReturn(
		func(_ context.Context, input, _ string) (archive.Result, error) {
			close(started)
			<-release
			return archive.Result{ContentRoot: dest}, nil
		},
	).Times(1)
	finder := mock_installer.NewMockExecutableFinder(ctrl)
	finder.EXPECT().Resolve(dest, dest).Return(dest, false).Times(1)

	p := installer.New(extractor, finder, nil, installer.Hooks{})

	done := make(chan error, 1)
	go func() {
		_, err := p.Install(context.Background(), "first.zip", dest, installer.Options{})
		done <- err
	}()
	<-started

	assert.True(t, p.Busy(dest))
	_, err := p.Install(context.Background(), "second.zip", dest+string(filepath.Separator), installer.Options{})
	assert.ErrorIs(t, err, errors.ErrInstallInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, p.Busy(dest))
}

func TestInstall_RunsPostInstallScript(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dest := t.TempDir()
	extractor := mock_installer.NewMockExtractor(ctrl)
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), dest).Return(archive.Result{}, fmt.Errorf("wrapped: %w", errors.ErrArchiveNotFound))
	finder := mock_installer.NewMockExecutableFinder(ctrl)
	finder.EXPECT().Resolve(dest, dest).Return(filepath.Join(dest, "Wow.exe"), true)

	scripts := hooks.NewHookManager()
	require.NoError(t, scripts.AddHook(hooks.Hook{
		Type:    hooks.PostInstall,
		Content: `if gameId != "tbc" { err = "wrong game" }`,
	}))

	p := installer.New(extractor, finder, scripts, installer.Hooks{})
	res, err := p.Install(context.Background(), dest, dest, installer.Options{GameID: "tbc"})
	require.NoError(t, err, "post-install failures are logged, not returned")
	assert.True(t, res.Found)
}

func TestInstall_EmptyDestination(t *testing.T) {
	_, err := realPipeline(installer.Hooks{}).Install(context.Background(), "x.zip", "", installer.Options{})
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}
