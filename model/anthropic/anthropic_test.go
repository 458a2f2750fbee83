package anthropic

import (
	"testing"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_ToolResultsInUserTurn(t *testing.T) {
	msgs := buildMessages([]core.Content{
		{Role: "user", Parts: []core.Part{core.TextPart{Text: "launch day"}}},
		{Role: "assistant", Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{
			ID: "toolu_1", Name: "combine_with_user_input", Arguments: `{"user_input":"launch day"}`,
		}}}},
		{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
			ID: "toolu_1", Name: "combine_with_user_input", Response: "Detected Texts: []",
		}}}},
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[1].Role)
	require.NotNil(t, msgs[1].Content[0].OfToolUse)
	assert.Equal(t, "toolu_1", msgs[1].Content[0].OfToolUse.ID)

	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[2].Role)
	require.NotNil(t, msgs[2].Content[0].OfToolResult)
	assert.Equal(t, "toolu_1", msgs[2].Content[0].OfToolResult.ToolUseID)
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]model.ToolDefinition{{Function: model.FunctionDefinition{
		Name:        "generate_linkedin_post",
		Description: "Write the post",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"content": map[string]any{"type": "string"}},
			"required":   []any{"content"},
		},
	}}})

	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "generate_linkedin_post", tools[0].OfTool.Name)
	assert.Equal(t, []string{"content"}, tools[0].OfTool.InputSchema.Required)
	assert.Equal(t, "Write the post", tools[0].OfTool.Description.Value)
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.APIKey = "key"
		o.Model = anthropic.Model("claude-test")
	})
	assert.Equal(t, "claude-test", m.Info().Name)
	assert.Equal(t, "anthropic", m.Info().Provider)
}
