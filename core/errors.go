package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTool is wrapped by ToolInvocationError when the model names a tool
	// that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArguments is wrapped by ToolInvocationError when the model's
	// arguments cannot be parsed or fail schema validation.
	ErrInvalidArguments = errors.New("invalid tool arguments")
	// ErrToolFailed is wrapped by ToolInvocationError when a tool ran and failed
	// for a reason other than an external service error.
	ErrToolFailed = errors.New("tool execution failed")
)

// ExternalServiceError reports a failure at the vision or language-model
// boundary: auth, network, rate limit, timeout or a malformed response.
type ExternalServiceError struct {
	Service string // "vision" or "llm"
	Op      string // e.g. "DetectText", "Generate"
	Err     error
}

// Error implements error.
func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExternalServiceError) Unwrap() error { return e.Err }

// MissingInputWarning is a non-fatal signal that an optional input was absent
// and the stages depending on it were skipped.
type MissingInputWarning struct {
	Field Field
}

// Error implements error.
func (w *MissingInputWarning) Error() string {
	return fmt.Sprintf("missing input %s: dependent stages skipped", w.Field)
}

// ToolInvocationError reports a tool call the agent loop refused or could not
// complete. Err wraps one of ErrUnknownTool, ErrInvalidArguments or ErrToolFailed.
type ToolInvocationError struct {
	Tool   string
	Reason string
	Err    error
}

// Error implements error.
func (e *ToolInvocationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("tool %q: %v", e.Tool, e.Err)
	}

	return fmt.Sprintf("tool %q: %v: %s", e.Tool, e.Err, e.Reason)
}

// Unwrap returns the wrapped sentinel.
func (e *ToolInvocationError) Unwrap() error { return e.Err }

// LoopBudgetExceeded reports that the agent requested more tool calls than
// its budget allows without declaring completion.
type LoopBudgetExceeded struct {
	Budget    int
	Attempted int
}

// Error implements error.
func (e *LoopBudgetExceeded) Error() string {
	return fmt.Sprintf("tool call budget exceeded: attempted call %d with budget %d", e.Attempted, e.Budget)
}
