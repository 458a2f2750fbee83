package core

import "time"

// Input is what the boundary (CLI or façade) hands to an orchestrator.
type Input struct {
	Image    []byte // optional
	UserText string // optional
}

// ToolCallRecord describes one executed agent tool call.
type ToolCallRecord struct {
	ID       string
	Name     string
	Args     map[string]any
	Duration time.Duration
}

// Result is returned by a successful run. A failed run returns no Result.
type Result struct {
	RunID       string
	FinalOutput string
	State       *State // detached snapshot
	Warnings    []*MissingInputWarning
	ToolCalls   []ToolCallRecord // agent mode only
}
