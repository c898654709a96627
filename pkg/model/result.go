package model

import (
	"fmt"
	"strings"
)

// ItemResult is the per-item outcome of a batch operation.
type ItemResult struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// OperationResult is the structured result returned at component boundaries.
type OperationResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Items   []ItemResult `json:"items,omitempty"`
}

// Succeeded builds a successful result.
func Succeeded(format string, args ...any) OperationResult {
	return OperationResult{Success: true, Message: fmt.Sprintf(format, args...)}
}

// Failed builds a failed result from err.
func Failed(err error) OperationResult {
	return OperationResult{Success: false, Message: err.Error()}
}

// Failures returns the items that carry an error.
func (r OperationResult) Failures() []ItemResult {
	var out []ItemResult
	for _, it := range r.Items {
		if it.Error != "" {
			out = append(out, it)
		}
	}
	return out
}

// FailureSummary renders failures as "name: msg, name: msg".
func (r OperationResult) FailureSummary() string {
	parts := make([]string, 0, len(r.Items))
	for _, it := range r.Failures() {
		parts = append(parts, it.Name+": "+it.Error)
	}
	return strings.Join(parts, ", ")
}
