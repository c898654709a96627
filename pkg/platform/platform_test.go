package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent(t *testing.T) {
	assert.Equal(t, NormalizeOS(runtime.GOOS), Current())
}

func TestNormalizeOS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"win32", OSWindows},
		{"Windows", OSWindows},
		{"macos", OSDarwin},
		{"darwin", OSDarwin},
		{" linux ", OSLinux},
		{"freebsd", OSFreeBSD},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOS(tt.in))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches(AnyOS, OSLinux))
	assert.True(t, Matches(OSWindows, "win32"))
	assert.False(t, Matches(OSWindows, OSLinux))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("win32"))
	assert.True(t, IsValid(OSLinux))
	assert.False(t, IsValid("plan9"))
	assert.True(t, IsWindows("WINDOWS"))
}
