package testutil

import (
	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/vision"
)

// FakeImage is an opaque byte payload standing in for an uploaded photo.
// Nothing decodes it; detectors only need it to be non-empty.
var FakeImage = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// InputBuilder helps construct run inputs with fluent chaining for tests.
// Example:
//
//	in := NewInputBuilder().WithImage().Text("launch day").Build()
type InputBuilder struct {
	in core.Input
}

// NewInputBuilder creates an empty input builder.
func NewInputBuilder() *InputBuilder { return &InputBuilder{} }

// WithImage attaches FakeImage (chainable).
func (b *InputBuilder) WithImage() *InputBuilder { return b.Image(FakeImage) }

// Image attaches the given image bytes (chainable).
func (b *InputBuilder) Image(img []byte) *InputBuilder {
	b.in.Image = append([]byte(nil), img...)
	return b
}

// Text sets the user text (chainable).
func (b *InputBuilder) Text(t string) *InputBuilder { b.in.UserText = t; return b }

// Build returns the core.Input.
func (b *InputBuilder) Build() core.Input { return b.in }

// HelloSignDetector returns a detector reporting one line ("Hello", 99.1)
// plus a WORD fragment, and one label ("Sign", 87).
func HelloSignDetector() *vision.StaticDetector {
	d := vision.NewStaticDetector(
		[]core.Detection{{Text: "Hello", Confidence: 99.1}},
		[]core.Detection{{Text: "Sign", Confidence: 87}},
	)
	d.Text = append(d.Text, vision.TextRegion{Text: "Hello", Confidence: 99.1, Kind: vision.TextKindWord})

	return d
}
