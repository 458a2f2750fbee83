package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	// Required only includes non-pointer, non-omitempty exported fields
	assert.ElementsMatch(t, []string{"a"}, schema["required"])
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// []any mirrors a JSON decoded schema shape
		"required": []any{"x"},
	}

	err := util.ValidateParameters(map[string]any{"x": 5}, schema)
	assert.NoError(t, err)

	err = util.ValidateParameters(map[string]any{}, schema)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "x", vErr.Field)

	err = util.ValidateParameters(map[string]any{"x": "not-int"}, schema)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "expected type integer")
}

func TestValidateParameters_StringRequiredAndStrict(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required":             []string{"text"},
		"additionalProperties": false,
	}

	err := util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)

	err = util.ValidateParameters(map[string]any{"text": "x", "extra": 1}, schema)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "extra", vErr.Field)
}

// -------------------- FunctionTool Tests --------------------

func newToolContext() *core.ToolContext {
	return core.NewToolContext(context.Background(), core.NewState(nil, "launch day"), "run-1", "fc-1", nil, nil)
}

func echoTool() *FunctionTool {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}

	return NewFunctionTool("echo", "Echo text", params, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["text"], nil
	}, func(o *FunctionToolOptions) {
		o.Writes = []core.Field{core.FieldCombinedText}
	})
}

func TestFunctionTool_Success(t *testing.T) {
	tl := echoTool()

	result, err := tl.Call(newToolContext(), map[string]any{"text": "hi"})
	assert.NoError(t, err)
	assert.Equal(t, "hi", result)
	assert.Equal(t, []core.Field{core.FieldCombinedText}, tl.Writes())
	assert.Empty(t, tl.Reads())
}

func TestFunctionTool_ValidationError(t *testing.T) {
	_, err := echoTool().Call(newToolContext(), map[string]any{})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

func TestFunctionTool_ExecutionErrorKeepsCause(t *testing.T) {
	cause := &core.ExternalServiceError{Service: "vision", Op: "DetectText", Err: errors.New("denied")}
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	failing := NewFunctionTool("fail", "Fails", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, cause
	})

	_, err := failing.Call(newToolContext(), map[string]any{})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)

	var ext *core.ExternalServiceError
	assert.ErrorAs(t, err, &ext)
}

func TestFunctionToolFromStruct(t *testing.T) {
	type args struct {
		Content string `json:"content,omitempty" description:"Body"`
	}

	tl := NewFunctionToolFromStruct("gen", "Generate", args{}, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return "ok", nil
	})

	props := tl.Parameters()["properties"].(map[string]any)
	assert.Contains(t, props, "content")
	_, hasRequired := tl.Parameters()["required"]
	assert.False(t, hasRequired)
}

// -------------------- Registry Tests --------------------

func TestRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(echoTool(), echoTool())
	assert.Error(t, err)
}

func TestRegistry_InvokeUnknownTool(t *testing.T) {
	r, err := NewRegistry(echoTool())
	require.NoError(t, err)

	_, _, err = r.Invoke(newToolContext(), core.FunctionCall{ID: "1", Name: "delete_everything"})

	var invErr *core.ToolInvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "delete_everything", invErr.Tool)
	assert.ErrorIs(t, err, core.ErrUnknownTool)
}

func TestRegistry_InvokeMalformedArguments(t *testing.T) {
	r, err := NewRegistry(echoTool())
	require.NoError(t, err)

	_, _, err = r.Invoke(newToolContext(), core.FunctionCall{Name: "echo", Arguments: "{not json"})
	assert.ErrorIs(t, err, core.ErrInvalidArguments)

	_, _, err = r.Invoke(newToolContext(), core.FunctionCall{Name: "echo", Arguments: `{"text": 3}`})
	assert.ErrorIs(t, err, core.ErrInvalidArguments)

	_, _, err = r.Invoke(newToolContext(), core.FunctionCall{Name: "echo", Arguments: `["text"]`})
	assert.ErrorIs(t, err, core.ErrInvalidArguments)
}

func TestRegistry_InvokeSuccess(t *testing.T) {
	r, err := NewRegistry(echoTool())
	require.NoError(t, err)

	res, args, err := r.Invoke(newToolContext(), core.FunctionCall{Name: "echo", Arguments: `{"text":"hello"}`})
	require.NoError(t, err)
	assert.Equal(t, "hello", res)
	assert.Equal(t, map[string]any{"text": "hello"}, args)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ExternalErrorPassesThrough(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	failing := NewFunctionTool("fail", "Fails", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, &core.ExternalServiceError{Service: "llm", Op: "Generate", Err: context.DeadlineExceeded}
	})
	r, err := NewRegistry(failing)
	require.NoError(t, err)

	_, _, err = r.Invoke(newToolContext(), core.FunctionCall{Name: "fail"})

	var ext *core.ExternalServiceError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, "llm", ext.Service)

	var invErr *core.ToolInvocationError
	assert.False(t, errors.As(err, &invErr))
}

func TestDecodeArguments_Empty(t *testing.T) {
	args, err := DecodeArguments("")
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = DecodeArguments("null")
	require.NoError(t, err)
	assert.NotNil(t, args)
}

// -------------------- ToolError Formatting --------------------

func TestToolErrorFormatting(t *testing.T) {
	err := NewToolError("demo", "something failed", "E123")
	assert.Contains(t, err.Error(), "E123")
	assert.Contains(t, err.Error(), "demo")
}
