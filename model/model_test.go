package model

import (
	"context"
	"errors"
	"testing"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userContent(text string) core.Content {
	return core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: text}}}
}

func TestMockModel_CannedAndFallback(t *testing.T) {
	m := NewMockModel("mock", "test")
	m.AddResponse("hello", "world")

	resp, err := m.Generate(context.Background(), Request{Contents: []core.Content{userContent("hello")}})
	require.NoError(t, err)
	assert.Equal(t, "world", resp.Content.Text())

	resp, err = m.Generate(context.Background(), Request{Contents: []core.Content{userContent("other")}})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: other", resp.Content.Text())
	assert.Len(t, m.Requests(), 2)
}

func TestMockModel_QueueBeforeCanned(t *testing.T) {
	m := NewMockModel("mock", "test")
	m.Enqueue(ToolCallResponse(core.FunctionCall{ID: "1", Name: "extract_text_from_image"}))

	resp, err := m.Generate(context.Background(), Request{Contents: []core.Content{userContent("x")}})
	require.NoError(t, err)
	require.Len(t, resp.Content.FunctionCalls(), 1)
	assert.Equal(t, "tool_calls", resp.FinishReason)

	resp, err = m.Generate(context.Background(), Request{Contents: []core.Content{userContent("x")}})
	require.NoError(t, err)
	assert.Empty(t, resp.Content.FunctionCalls())
}

func TestMockModel_Hook(t *testing.T) {
	m := NewMockModel("mock", "test")
	m.OnGenerate = func(_ Request, n int) (Response, error) {
		if n == 1 {
			return Response{}, errors.New("rate limited")
		}
		return TextResponse("ok"), nil
	}

	_, err := m.Generate(context.Background(), Request{})
	require.NoError(t, err)
	_, err = m.Generate(context.Background(), Request{})
	assert.EqualError(t, err, "rate limited")
}

func TestMockModel_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockModel("mock", "test").Generate(ctx, Request{Contents: []core.Content{userContent("x")}})
	assert.ErrorIs(t, err, context.Canceled)
}
