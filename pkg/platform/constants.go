// Package platform describes the host operating system the launcher runs on.
// Extraction strategies and version checks are selected from it.
package platform

const (
	// OSWindows represents the Windows operating system.
	OSWindows = "windows"
	// OSLinux represents the Linux operating system.
	OSLinux = "linux"
	// OSDarwin represents the macOS operating system.
	OSDarwin = "darwin"
	// OSFreeBSD represents the FreeBSD operating system.
	OSFreeBSD = "freebsd"
	// AnyOS matches every operating system in strategy tables.
	AnyOS = "any"
)

// ValidOS returns a list of valid OS values.
func ValidOS() []string {
	return []string{OSWindows, OSLinux, OSDarwin, OSFreeBSD}
}
