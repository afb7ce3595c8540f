// Package gemini is the client for the primary generative backend: it
// converts conversation history into the generateContent wire format,
// dispatches the request, and parses candidates back into reply text and
// tool calls.
package gemini

// Part is one element of a content block. Exactly one field is set.
type Part struct {
	Text             *string           `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// FunctionCall names an operation the model wants the renderer to execute.
// Args is an object on the happy path but some models return it as a
// JSON-encoded string; the parser tolerates both.
type FunctionCall struct {
	Name string `json:"name"`
	Args any    `json:"args,omitempty"`
}

// FunctionResponse echoes a tool execution outcome back to the model.
type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// Content is one turn in the wire-format conversation.
// Role is "user" or "model".
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

type systemInstruction struct {
	Parts []Part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *systemInstruction `json:"system_instruction,omitempty"`
	Contents          []Content          `json:"contents"`
	Tools             []map[string]any   `json:"tools,omitempty"`
	ToolConfig        map[string]any     `json:"tool_config,omitempty"`
}

// GenerateResponse is the backend's reply envelope.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated completion. Only the first is consumed.
type Candidate struct {
	Content       Content `json:"content"`
	FinishReason  string  `json:"finishReason"`
	SafetyRatings any     `json:"safetyRatings"`
}

func textPart(text string) Part {
	return Part{Text: &text}
}
