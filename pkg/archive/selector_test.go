package archive_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/glorpus-work/relictum/pkg/archive"
	mock_archive "github.com/glorpus-work/relictum/pkg/archive/mocks"
	pkgerrors "github.com/glorpus-work/relictum/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func lookPathWith(found map[string]string) func(string) (string, error) {
	return func(name string) (string, error) {
		if p, ok := found[name]; ok {
			return p, nil
		}
		return "", exec.ErrNotFound
	}
}

func TestSelector_StrategyFor(t *testing.T) {
	tests := []struct {
		name     string
		os       string
		kind     archive.Kind
		sevenZip string
		onPath   map[string]string
		want     string
	}{
		{name: "zip on windows uses powershell", os: "windows", kind: archive.KindZip, want: "powershell"},
		{name: "zip on linux is in-process", os: "linux", kind: archive.KindZip, want: "in-process"},
		{name: "zip on darwin is in-process", os: "darwin", kind: archive.KindZip, want: "in-process"},
		{name: "rar with 7za on path", os: "linux", kind: archive.KindRar, onPath: map[string]string{"7za": "/usr/bin/7za"}, want: "7z"},
		{name: "rar with configured binary", os: "windows", kind: archive.KindRar, sevenZip: `D:\tools\7z.exe`, want: "7z"},
		{name: "rar without 7-zip falls back", os: "linux", kind: archive.KindRar, want: "in-process"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &archive.Selector{OS: tt.os, SevenZipPath: tt.sevenZip, LookPath: lookPathWith(tt.onPath)}
			assert.Equal(t, tt.want, s.StrategyFor(tt.kind).Name())
		})
	}
}

func TestSevenZipStrategy_Arguments(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mock_archive.NewMockRunner(ctrl)
	runner.EXPECT().Run("/usr/bin/7za", "x", "-y", "-o/games", "/dl/client.rar").Return([]byte("Everything is Ok"), nil)

	s := &archive.SevenZipStrategy{Runner: runner, Binary: "/usr/bin/7za"}
	require.NoError(t, s.Extract(context.Background(), "/dl/client.rar", "/games"))
}

func TestSevenZipStrategy_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mock_archive.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return([]byte("ERROR: CRC Failed : Wow.exe\n"), errors.New("exit status 2"))

	s := &archive.SevenZipStrategy{Runner: runner, Binary: "7z"}
	err := s.Extract(context.Background(), "/dl/client.rar", "/games")
	require.ErrorIs(t, err, pkgerrors.ErrExtractionFailed)

	var extractionErr *pkgerrors.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "ERROR: CRC Failed : Wow.exe", extractionErr.Output)
	assert.Equal(t, "7z", extractionErr.Strategy)
}

func TestPowerShellStrategy_QuotesPaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mock_archive.NewMockRunner(ctrl)
	runner.EXPECT().Run("powershell.exe", "-NoProfile", "-NonInteractive", "-Command",
		`Expand-Archive -LiteralPath 'C:\Users\o''brien\client.zip' -DestinationPath 'C:\Games' -Force`).
		Return(nil, nil)

	s := &archive.PowerShellStrategy{Runner: runner}
	require.NoError(t, s.Extract(context.Background(), `C:\Users\o'brien\client.zip`, `C:\Games`))
}

func TestExternalStrategy_CancelledBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mock_archive.NewMockRunner(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &archive.SevenZipStrategy{Runner: runner, Binary: "7z"}
	assert.ErrorIs(t, s.Extract(ctx, "a.rar", "dest"), context.Canceled)
}
