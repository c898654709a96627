// Package hooks runs user-supplied Tengo scripts at fixed points of the
// launcher lifecycle: before a game starts, after a game install and after an
// add-on install.
package hooks

// HookType represents the type of hooks.
type HookType string

// Supported hooks types.
const (
	PreLaunch        HookType = "pre-launch"
	PostInstall      HookType = "post-install"
	PostAddonInstall HookType = "post-addon-install"
)

// Types lists every supported hook type.
func Types() []HookType {
	return []HookType{PreLaunch, PostInstall, PostAddonInstall}
}

// IsValid reports whether t is a supported hook type.
func (t HookType) IsValid() bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}

// Hook represents a hooks script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hooks.
type HookContext struct {
	GameID         string
	InstallPath    string
	ExecutablePath string
	AddonName      string
	Vars           map[string]interface{}
}

// HookManager defines the interface for managing hooks.
type HookManager interface {
	// Execute runs the specified hooks type with the given context
	Execute(hookType HookType, ctx HookContext) error

	// AddHook adds a new hooks
	AddHook(hook Hook) error

	// RemoveHook removes a hooks of the specified type
	RemoveHook(hookType HookType) error

	// HasHook checks if a hooks of the specified type exists
	HasHook(hookType HookType) bool
}
