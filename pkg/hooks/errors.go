package hooks

import (
	"github.com/glorpus-work/relictum/pkg/errors"
)

// Re-exported so callers can match hook failures without importing pkg/errors.
var (
	ErrHookTypeEmpty = errors.ErrHookTypeEmpty
	ErrHookExecution = errors.ErrHookExecution
	ErrHookScript    = errors.ErrHookScript
	ErrHookLoad      = errors.ErrHookLoad
)

// ErrUnsupportedHookType is returned when a script is registered for an unknown hook.
func ErrUnsupportedHookType(hookType HookType) error {
	return errors.Wrapf(ErrHookLoad, "unsupported hook type: %s", hookType)
}
