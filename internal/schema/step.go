package schema

import "time"

// StepStatus is the lifecycle state of one pipeline stage.
type StepStatus string

const (
	StepStarted  StepStatus = "started"
	StepComplete StepStatus = "complete"
	StepError    StepStatus = "error"
)

// Canonical pipeline stage ids. Stages with an externally observable
// duration appear twice in a trace: once "started", once terminal.
const (
	StepReadingPrompt            = "reading_prompt"
	StepAugmentingContext        = "augmenting_context"
	StepDispatchingToGemini      = "dispatching_to_gemini"
	StepReceivingGeminiResponse  = "receiving_gemini_response"
	StepExtractingToolCalls      = "extracting_tool_calls"
	StepDispatchingToDedalus     = "dispatching_to_dedalus"
	StepReceivingDedalusResponse = "receiving_dedalus_response"
	StepRenderingReply           = "rendering_reply"
)

// AgentStep is one entry in the per-request pipeline trace.
// Entries are append-only and never edited after being recorded.
type AgentStep struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	Status    StepStatus     `json:"status"`
	Detail    map[string]any `json:"detail"`
	Timestamp time.Time      `json:"timestamp"`
}
