// Package trace records the ordered, append-only audit log of pipeline
// stages for one request.
package trace

import (
	"strings"
	"time"

	"github.com/decaylee13/Anatomy-View/internal/schema"
)

// stepLabels maps stage ids to their human-readable labels.
var stepLabels = map[string]string{
	schema.StepReadingPrompt:            "Reading user prompt",
	schema.StepAugmentingContext:        "Augmenting context",
	schema.StepDispatchingToGemini:      "Dispatching to Gemini",
	schema.StepReceivingGeminiResponse:  "Receiving response from Gemini",
	schema.StepExtractingToolCalls:      "Extracting tool calls",
	schema.StepDispatchingToDedalus:     "Dispatching to Dedalus Labs",
	schema.StepReceivingDedalusResponse: "Receiving response from Dedalus Labs",
	schema.StepRenderingReply:           "Rendering final reply",
}

// Recorder accumulates AgentSteps for a single pipeline run. It is not safe
// for concurrent use; each request owns its own Recorder.
type Recorder struct {
	steps []schema.AgentStep
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one step with the current UTC timestamp. Prior entries are
// never edited: a long-running stage is recorded twice, "started" before
// the call and a terminal status after.
func (r *Recorder) Record(id string, detail map[string]any, status schema.StepStatus) {
	r.steps = append(r.steps, schema.AgentStep{
		ID:        id,
		Label:     Label(id),
		Status:    status,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}

// Started records id with status "started".
func (r *Recorder) Started(id string, detail map[string]any) {
	r.Record(id, detail, schema.StepStarted)
}

// Complete records id with status "complete".
func (r *Recorder) Complete(id string, detail map[string]any) {
	r.Record(id, detail, schema.StepComplete)
}

// Error records id with status "error".
func (r *Recorder) Error(id string, detail map[string]any) {
	r.Record(id, detail, schema.StepError)
}

// Steps returns a copy of the trace so the envelope cannot be mutated
// through the recorder afterwards.
func (r *Recorder) Steps() []schema.AgentStep {
	out := make([]schema.AgentStep, len(r.steps))
	copy(out, r.steps)
	return out
}

// Label resolves the human label for a stage id, falling back to a
// title-cased rendering of the id itself.
func Label(id string) string {
	if label, ok := stepLabels[id]; ok {
		return label
	}
	words := strings.Split(id, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
