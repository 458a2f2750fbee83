package core

import (
	"sync"
)

// DefaultMaxToolCalls is the tool-call budget used when none is configured.
const DefaultMaxToolCalls = 10

// CallBudget enforces a maximum number of tool invocations per agent run.
type CallBudget struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewCallBudget creates a budget allowing max calls. A non-positive max falls
// back to DefaultMaxToolCalls; the budget is never unlimited.
func NewCallBudget(max int) *CallBudget {
	if max <= 0 {
		max = DefaultMaxToolCalls
	}

	return &CallBudget{max: max}
}

// Increment reserves one call and returns *LoopBudgetExceeded once the
// reservation would go past the cap.
func (b *CallBudget) Increment() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.count++
	if b.count > b.max {
		return &LoopBudgetExceeded{Budget: b.max, Attempted: b.count}
	}

	return nil
}

// Count returns the number of reservations made, including a rejected one.
func (b *CallBudget) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.count
}

// Max returns the configured cap.
func (b *CallBudget) Max() int { return b.max }

// Remaining returns how many calls are left before hitting the cap.
func (b *CallBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count >= b.max {
		return 0
	}

	return b.max - b.count
}
