package gemini

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/decaylee13/Anatomy-View/internal/schema"
)

// ExtractParts splits a candidate's parts into reply text fragments and the
// tool calls the model requested, in source order.
func ExtractParts(parts []Part) ([]string, []schema.ToolCall) {
	var fragments []string
	toolCalls := []schema.ToolCall{}

	for _, part := range parts {
		switch {
		case part.Text != nil:
			fragments = append(fragments, *part.Text)
		case part.FunctionCall != nil:
			toolCalls = append(toolCalls, schema.ToolCall{
				Name:      part.FunctionCall.Name,
				Arguments: parseArgs(part.FunctionCall.Name, part.FunctionCall.Args),
			})
		}
	}
	return fragments, toolCalls
}

// parseArgs normalises function-call arguments. Objects pass through; a
// JSON-encoded string is parsed; a parse failure degrades to empty arguments
// and is logged, never fatal.
func parseArgs(tool string, raw any) map[string]any {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	case string:
		if strings.TrimSpace(v) == "" {
			return map[string]any{}
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			slog.Warn("gemini: failed to parse tool arguments", "tool", tool, "args", v, "err", err)
			return map[string]any{}
		}
		return parsed
	default:
		return map[string]any{}
	}
}

// JoinReply concatenates trimmed non-empty fragments with newlines, the
// final reply-text policy for the primary response.
func JoinReply(fragments []string) string {
	kept := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}
