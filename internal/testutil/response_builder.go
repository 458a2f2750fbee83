package testutil

import (
	"encoding/json"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model"
)

// ResponseBuilder provides a fluent helper for constructing scripted model
// responses in tests.
// Example:
//
//	resp := NewResponseBuilder().Call("c1", "extract_text_from_image", nil).Build()
//
// Chain only the parts you need.
type ResponseBuilder struct {
	id        string
	textParts []string
	calls     []core.FunctionCall
	finish    string
}

// NewResponseBuilder creates an empty builder.
func NewResponseBuilder() *ResponseBuilder { return &ResponseBuilder{} }

// ID sets the provider response ID (chainable).
func (b *ResponseBuilder) ID(id string) *ResponseBuilder { b.id = id; return b }

// Text appends an assistant text part (chainable).
func (b *ResponseBuilder) Text(t string) *ResponseBuilder {
	b.textParts = append(b.textParts, t)
	return b
}

// Call appends a function call. args is marshalled to JSON; nil yields "{}" (chainable).
func (b *ResponseBuilder) Call(id, name string, args map[string]any) *ResponseBuilder {
	raw := "{}"
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			panic(err)
		}
		raw = string(data)
	}

	return b.RawCall(id, name, raw)
}

// RawCall appends a function call with the argument payload used verbatim (chainable).
func (b *ResponseBuilder) RawCall(id, name, rawArgs string) *ResponseBuilder {
	b.calls = append(b.calls, core.FunctionCall{ID: id, Name: name, Arguments: rawArgs})
	return b
}

// FinishReason overrides the derived finish reason (chainable).
func (b *ResponseBuilder) FinishReason(r string) *ResponseBuilder { b.finish = r; return b }

// Build constructs the model.Response value.
func (b *ResponseBuilder) Build() model.Response {
	parts := make([]core.Part, 0, len(b.textParts)+len(b.calls))
	for _, t := range b.textParts {
		parts = append(parts, core.TextPart{Text: t})
	}
	for _, fc := range b.calls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
	}

	finish := b.finish
	if finish == "" {
		finish = "stop"
		if len(b.calls) > 0 {
			finish = "tool_calls"
		}
	}

	return model.Response{
		ID:           b.id,
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: finish,
	}
}

// ScriptedModel returns a MockModel that replays resps in order.
func ScriptedModel(resps ...model.Response) *model.MockModel {
	m := model.NewMockModel("scripted", "mock")
	m.Enqueue(resps...)

	return m
}

// LoopingModel returns a MockModel that requests the named tool on every turn.
func LoopingModel(toolName string) *model.MockModel {
	m := model.NewMockModel("looping", "mock")
	m.OnGenerate = func(_ model.Request, _ int) (model.Response, error) {
		return NewResponseBuilder().Call("", toolName, nil).Build(), nil
	}

	return m
}
