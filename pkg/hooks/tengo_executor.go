package hooks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 30 * time.Second

// TengoExecutor handles the execution of Tengo scripts.
type TengoExecutor struct {
	scripts map[HookType]string
	timeout time.Duration
	mutex   sync.RWMutex
}

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{
		scripts: make(map[HookType]string),
		timeout: DefaultTimeout,
	}
}

// Execute runs the specified hooks type with the given context.
// A script signals failure by assigning a non-empty string or an error to `err`.
func (e *TengoExecutor) Execute(hookType HookType, hookCtx HookContext) error {
	e.mutex.RLock()
	script, exists := e.scripts[hookType]
	timeout := e.timeout
	e.mutex.RUnlock()
	if !exists {
		return nil
	}

	scriptInstance := tengo.NewScript([]byte(script))
	scriptInstance.SetImports(stdlib.GetModuleMap("fmt", "os", "strings", "text", "times"))

	vars := map[string]interface{}{
		"hookType":       string(hookType),
		"gameId":         hookCtx.GameID,
		"installPath":    hookCtx.InstallPath,
		"executablePath": hookCtx.ExecutablePath,
		"addonName":      hookCtx.AddonName,
		"err":            "",
	}
	for k, v := range hookCtx.Vars {
		vars[k] = v
	}
	for k, v := range vars {
		if err := scriptInstance.Add(k, v); err != nil {
			return fmt.Errorf("failed to add variable '%s' to script: %w", k, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	compiled, err := scriptInstance.RunContext(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", hookType, ErrHookExecution, err)
	}

	errVar := compiled.Get("err")
	if errVar == nil {
		return nil
	}
	switch v := errVar.Value().(type) {
	case error:
		return fmt.Errorf("%s: %w: %w", hookType, ErrHookScript, v)
	case string:
		if v != "" {
			return fmt.Errorf("%s: %w: %s", hookType, ErrHookScript, v)
		}
	}
	return nil
}

// SetTimeout changes the per-run deadline.
func (e *TengoExecutor) SetTimeout(d time.Duration) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if d > 0 {
		e.timeout = d
	}
}

// AddScript adds or updates a script for the specified hooks type.
func (e *TengoExecutor) AddScript(hookType HookType, script string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.scripts[hookType] = script
}

// RemoveScript removes the script for the specified hooks type.
func (e *TengoExecutor) RemoveScript(hookType HookType) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	delete(e.scripts, hookType)
}

// HasScript checks if a script exists for the specified hooks type.
func (e *TengoExecutor) HasScript(hookType HookType) bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	_, exists := e.scripts[hookType]
	return exists
}
