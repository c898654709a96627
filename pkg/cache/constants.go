package cache

import "github.com/glorpus-work/relictum/pkg/fsutil"

// CacheDirPerm is the default permission mode for cache directories (rwx------).
const CacheDirPerm = fsutil.DirModePrivate

// Sub-directories of the launcher cache.
const (
	DownloadsDir = "downloads"
	AddonsDir    = "addons"
)

// GameCacheDirs are the client cache folders removed by ClearGame.
var GameCacheDirs = []string{"WDB", "Cache"}
