// Package routing decides whether a conversation turn looks like a knowledge
// question worth forwarding to the secondary study backend.
//
// The verdict is advisory: the pipeline records it in the trace but queries
// the secondary backend whenever that service is enabled, regardless of the
// outcome here.
package routing

import (
	"strings"

	"github.com/decaylee13/Anatomy-View/internal/schema"
)

// The vocabularies are literal configuration data, not a learned model.

// excludedKeywords mark scene-manipulation turns that the renderer handles.
var excludedKeywords = []string{
	"highlight", "rotate", "rotation", "view", "angle", "turn", "zoom", "orient",
	"orientation", "camera", "focus on", "show me", "display the model", "spin",
	"auto-rotate", "auto rotate", "clear highlight", "reset view", "annotation",
	"annotate", "color", "colour",
}

// questionTriggers open a knowledge question when the text starts with one.
var questionTriggers = []string{
	"?", "what ", "how ", "why ", "explain ", "describe ", "tell me ", "compare ",
}

// medicalMarkers indicate domain relevance for longer, non-question phrasing.
var medicalMarkers = []string{
	"function", "role", "purpose", "medical", "clinical", "symptom", "disease",
	"pathology", "treatment", "diagnosis", "anatomy", "physiology", "surgical",
	"injury", "condition", "blood", "nerve", "organ", "system",
}

// ShouldRoute reports whether the latest turn warrants the secondary backend.
// Scene-manipulation turns (any extracted tool call, or exclusion vocabulary
// in the latest user text) never route; question-shaped or domain-relevant
// text does.
func ShouldRoute(enabled bool, messages []schema.Message, toolCalls []schema.ToolCall) bool {
	if !enabled {
		return false
	}
	if len(toolCalls) > 0 {
		return false
	}

	latest := LatestUserText(messages)
	if latest == "" {
		return false
	}
	lowered := strings.ToLower(latest)

	for _, keyword := range excludedKeywords {
		if strings.Contains(lowered, keyword) {
			return false
		}
	}

	for _, trigger := range questionTriggers {
		if strings.HasPrefix(lowered, trigger) {
			return true
		}
	}
	if strings.Contains(lowered, "?") {
		return true
	}
	if len(strings.Fields(lowered)) >= 6 {
		for _, marker := range medicalMarkers {
			if strings.Contains(lowered, marker) {
				return true
			}
		}
	}

	return false
}

// LatestUserText returns the trimmed text of the most recent user message,
// or "" when no user message carries text.
func LatestUserText(messages []schema.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != "user" {
			continue
		}
		if text := strings.TrimSpace(messages[i].Text); text != "" {
			return text
		}
	}
	return ""
}
