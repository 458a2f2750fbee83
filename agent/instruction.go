package agent

import (
	"strings"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
)

// Provider supplies dynamic goal text at runtime.
type Provider interface {
	Instruction(in core.Input) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as Providers.
type Func func(in core.Input) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(in core.Input) (string, error) { return f(in) }

// Instruction represents either a static instruction string or a dynamic provider.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(in core.Input) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, invoking the provider if needed.
func (i Instruction) Resolve(in core.Input) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(in)
	}
	return i.text, nil
}

const (
	goalText       = "You're an intelligent assistant that builds LinkedIn posts from images and optional user text. Use the tools available. "
	goalUserSuffix = "User has provided additional text to combine."
)

// DefaultGoal is the opening user turn of every agent run. The suffix is
// added only when the submission carries user text.
func DefaultGoal() Instruction {
	return NewInstructionFromFunc(func(in core.Input) (string, error) {
		if strings.TrimSpace(in.UserText) == "" {
			return goalText, nil
		}
		return goalText + goalUserSuffix, nil
	})
}
