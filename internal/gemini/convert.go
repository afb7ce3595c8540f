package gemini

import "github.com/decaylee13/Anatomy-View/internal/schema"

// BuildContents converts the generic message history into wire-format
// content blocks. Output order mirrors input order exactly; messages with
// roles other than user/assistant are dropped.
//
// Tool results attached to an assistant turn are not embedded in that turn's
// block: each becomes its own subsequent user-role block, modelling "the
// tool spoke back" as a new turn.
func BuildContents(messages []schema.Message) []Content {
	contents := make([]Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "user":
			var parts []Part
			if msg.Text != "" {
				parts = append(parts, textPart(msg.Text))
			}
			for _, result := range msg.ToolResults {
				parts = append(parts, responsePart(result))
			}
			contents = append(contents, Content{Role: "user", Parts: atLeastOnePart(parts)})

		case "assistant":
			var parts []Part
			if msg.Text != "" {
				parts = append(parts, textPart(msg.Text))
			}
			for _, call := range msg.ToolCalls {
				parts = append(parts, callPart(call))
			}
			contents = append(contents, Content{Role: "model", Parts: atLeastOnePart(parts)})
			for _, result := range msg.ToolResults {
				contents = append(contents, Content{
					Role:  "user",
					Parts: []Part{responsePart(result)},
				})
			}
		}
	}
	return contents
}

// atLeastOnePart guarantees no content block is ever part-less: the backend
// rejects empty parts arrays.
func atLeastOnePart(parts []Part) []Part {
	if len(parts) == 0 {
		return []Part{textPart("")}
	}
	return parts
}

func callPart(call schema.ToolCall) Part {
	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	return Part{FunctionCall: &FunctionCall{Name: call.Name, Args: args}}
}

func responsePart(result schema.ToolResult) Part {
	name := result.Name
	if name == "" {
		name = "unknown_tool"
	}
	return Part{FunctionResponse: &FunctionResponse{
		Name:     name,
		Response: result.ResponseBody(),
	}}
}
