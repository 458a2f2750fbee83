package agent

import (
	"strings"

	"github.com/Eshikamahajan/AWS-Agentic-AI/compose"
	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/tool"
	"github.com/Eshikamahajan/AWS-Agentic-AI/vision"
)

// Tool names exposed to the model.
const (
	ToolExtractText   = "extract_text_from_image"
	ToolExtractLabels = "extract_labels_from_image"
	ToolCombine       = "combine_with_user_input"
	ToolGeneratePost  = "generate_linkedin_post"
)

// noArgs is the schema of tools that take everything from the run State.
func noArgs() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"additionalProperties": false,
	}
}

// CombineArgs are the optional arguments of combine_with_user_input.
type CombineArgs struct {
	UserInput string `json:"user_input,omitempty" description:"Event description to combine; defaults to the text submitted with the image"`
}

// GenerateArgs are the optional arguments of generate_linkedin_post.
type GenerateArgs struct {
	Content string `json:"content,omitempty" description:"Combined event details; defaults to the output of combine_with_user_input"`
}

// NewTools returns the four event-post tools in their canonical order.
// Image bytes never travel through the model: both extract tools read them
// from the run State.
func NewTools(extractor *vision.Extractor, generator *compose.Generator) []tool.Tool {
	return []tool.Tool{
		newExtractTextTool(extractor),
		newExtractLabelsTool(extractor),
		newCombineTool(),
		newGeneratePostTool(generator),
	}
}

func newExtractTextTool(extractor *vision.Extractor) tool.Tool {
	return tool.NewFunctionTool(
		ToolExtractText,
		"Extract the lines of text visible in the uploaded event image. Returns text with confidence (0-100).",
		noArgs(),
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			st := tc.State()
			if !st.HasImage() {
				tc.Warn(&core.MissingInputWarning{Field: core.FieldImage})
				return []core.Detection{}, nil
			}

			lines, err := extractor.ExtractText(tc.Context(), st.Image())
			if err != nil {
				return nil, err
			}

			st.SetDetectedText(ToolExtractText, lines)

			return lines, nil
		},
		func(o *tool.FunctionToolOptions) {
			o.Reads = []core.Field{core.FieldImage}
			o.Writes = []core.Field{core.FieldDetectedText}
		},
	)
}

func newExtractLabelsTool(extractor *vision.Extractor) tool.Tool {
	return tool.NewFunctionTool(
		ToolExtractLabels,
		"Detect objects and scenes in the uploaded event image. Returns up to 10 labels with confidence (0-100).",
		noArgs(),
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			st := tc.State()
			if !st.HasImage() {
				tc.Warn(&core.MissingInputWarning{Field: core.FieldImage})
				return []core.Detection{}, nil
			}

			labels, err := extractor.ExtractLabels(tc.Context(), st.Image())
			if err != nil {
				return nil, err
			}

			st.SetDetectedLabels(ToolExtractLabels, labels)

			return labels, nil
		},
		func(o *tool.FunctionToolOptions) {
			o.Reads = []core.Field{core.FieldImage}
			o.Writes = []core.Field{core.FieldDetectedLabels}
		},
	)
}

func newCombineTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		ToolCombine,
		"Combine the extracted text and labels with the user's event description into one summary.",
		CombineArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			st := tc.State()

			userText := st.UserText()
			if s, _ := args["user_input"].(string); strings.TrimSpace(s) != "" {
				userText = s
			}

			combined := compose.Combine(st.DetectedText(), st.DetectedLabels(), userText)
			st.SetCombinedText(ToolCombine, combined)

			return combined, nil
		},
		func(o *tool.FunctionToolOptions) {
			o.Reads = []core.Field{core.FieldDetectedText, core.FieldDetectedLabels, core.FieldUserText}
			o.Writes = []core.Field{core.FieldCombinedText}
		},
	)
}

func newGeneratePostTool(generator *compose.Generator) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		ToolGeneratePost,
		"Write the final LinkedIn post (75 words or fewer) from the combined event details.",
		GenerateArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			st := tc.State()

			content, _ := args["content"].(string)
			if strings.TrimSpace(content) == "" {
				content = st.CombinedText()
			}

			if content == "" {
				// combine was never called; build the summary from whatever State holds
				content = compose.Combine(st.DetectedText(), st.DetectedLabels(), st.UserText())
				st.SetCombinedText(ToolGeneratePost, content)
			}

			post, err := generator.Generate(tc.Context(), content)
			if err != nil {
				return nil, err
			}

			st.SetFinalOutput(ToolGeneratePost, post)

			return post, nil
		},
		func(o *tool.FunctionToolOptions) {
			o.Reads = []core.Field{core.FieldCombinedText}
			o.Writes = []core.Field{core.FieldCombinedText, core.FieldFinalOutput}
		},
	)
}
