// Package schema contains the wire-level data types exchanged between the
// frontend, the conversation pipeline, and the model backends.
package schema

// Message is one entry in the conversation history supplied by the caller.
//
// Role is "user" or "assistant"; messages with any other role are ignored
// when the history is converted to backend wire format. Text may be empty
// when the turn consists only of tool calls or tool results.
type Message struct {
	Role        string       `json:"role"`
	Text        string       `json:"text"`
	ToolCalls   []ToolCall   `json:"toolCalls,omitempty"`
	ToolResults []ToolResult `json:"toolResults,omitempty"`
}

// ToolCall is one scene-control instruction emitted by the model for the
// renderer to execute. Immutable once parsed from the backend response.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolResult reports how a previously emitted tool call was executed.
// Clients may supply a ready-made Response object, or a Status/Message pair
// from which one is synthesised.
type ToolResult struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response,omitempty"`
	Status   string         `json:"status,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// ResponseBody returns the response object to echo back to the model.
// A caller-supplied Response is used verbatim; otherwise one is synthesised
// as {status, detail} with status defaulting to "ok" and detail null when
// no message was reported.
func (r ToolResult) ResponseBody() map[string]any {
	if r.Response != nil {
		return r.Response
	}
	status := r.Status
	if status == "" {
		status = "ok"
	}
	var detail any
	if r.Message != "" {
		detail = r.Message
	}
	return map[string]any{
		"status": status,
		"detail": detail,
	}
}
