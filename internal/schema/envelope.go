package schema

// ChatResponse is the envelope returned for one chat request.
// Constructed once by the pipeline and never mutated after return.
//
// On success Reply may legitimately be empty when tool calls fully explain
// the turn. Error carries the failure message on degraded (5xx) responses.
type ChatResponse struct {
	RequestID   string         `json:"requestId,omitempty"`
	Reply       string         `json:"reply"`
	ToolCalls   []ToolCall     `json:"toolCalls"`
	ReplySource string         `json:"replySource,omitempty"`
	StudyInfo   string         `json:"studyInfo,omitempty"`
	Raw         map[string]any `json:"raw,omitempty"`
	Error       string         `json:"error,omitempty"`
	AgentSteps  []AgentStep    `json:"agentSteps"`
}
