package hooks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/relictum/pkg/errors"
)

// ScriptExtension is the file extension of hook scripts.
const ScriptExtension = ".tengo"

// LoadScripts registers the script file configured for each hook type.
// Empty paths are skipped.
func LoadScripts(manager HookManager, paths map[HookType]string) error {
	for hookType, path := range paths {
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(ErrHookLoad, "%s: %v", path, err)
		}
		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return errors.Wrapf(err, "error adding hook %s", hookType)
		}
	}
	return nil
}

// LoadDir registers every <hook-type>.tengo file found in dir. A missing
// directory is not an error; unknown names are ignored.
func LoadDir(manager HookManager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read hooks directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ScriptExtension {
			continue
		}
		hookType := HookType(strings.TrimSuffix(entry.Name(), ScriptExtension))
		if !hookType.IsValid() {
			continue
		}
		hookPath := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return errors.Wrapf(err, "error reading hook file %s", hookPath)
		}
		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return errors.Wrapf(err, "error adding hook %s", hookType)
		}
	}
	return nil
}

// HookTemplate generates a starter script for a hook type.
func HookTemplate(hookType HookType) string {
	switch hookType {
	case PreLaunch:
		return `// Pre-launch hook
// Runs before the game process starts. Setting err aborts the launch.
// Available variables:
// - gameId: string - game generation (classic, tbc, wotlk)
// - installPath: string - library install path
// - executablePath: string - binary about to be started

/*
os := import("os")
if os.getenv("RELICTUM_OFFLINE") != "" {
    err = "offline mode, not launching"
}
*/`

	case PostInstall:
		return `// Post-install hook
// Runs after a game archive was extracted. Failures are logged only.
// Available variables: gameId, installPath, executablePath

/*
fmt := import("fmt")
fmt.println("installed ", gameId, " into ", installPath)
*/`

	case PostAddonInstall:
		return `// Post-addon-install hook
// Runs after an add-on archive was unpacked into Interface/AddOns.
// Available variables: gameId, installPath, addonName

/*
fmt := import("fmt")
fmt.println("added ", addonName)
*/`

	default:
		return "// Unknown hook type: " + string(hookType)
	}
}
