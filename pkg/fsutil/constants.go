package fsutil

// Permission modes used for everything relictum writes.
const (
	FileModeDefault = 0o644 // -rw-r--r--
	FileModeSecure  = 0o640 // -rw-r----- library database, config
	DirModeDefault  = 0o755 // drwxr-xr-x
	DirModeSecure   = 0o750 // drwxr-x--- download staging
)
