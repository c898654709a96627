package platform

import (
	"runtime"
	"slices"
	"strings"
)

// Current returns the normalized host OS.
func Current() string {
	return NormalizeOS(runtime.GOOS)
}

// IsWindows reports whether os names Windows.
func IsWindows(os string) bool {
	return NormalizeOS(os) == OSWindows
}

// Matches reports whether a table entry for want applies to host.
func Matches(want, host string) bool {
	return want == AnyOS || NormalizeOS(want) == NormalizeOS(host)
}

// IsValid reports whether os is a supported OS value.
func IsValid(os string) bool {
	return slices.Contains(ValidOS(), NormalizeOS(os))
}

// NormalizeOS normalizes OS names to a common format
func NormalizeOS(os string) string {
	os = strings.ToLower(strings.TrimSpace(os))
	switch os {
	case "macos", "osx", "darwin":
		return OSDarwin
	case "win", "win32", "windows":
		return OSWindows
	default:
		return os
	}
}
