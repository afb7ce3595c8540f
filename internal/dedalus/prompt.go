package dedalus

import (
	"strings"

	"github.com/decaylee13/Anatomy-View/internal/schema"
)

const promptGuidance = "You are a medically trained tutor supporting the Dedalus Labs anatomy explorer. " +
	"Answer the learner's latest question with clinically accurate, concise explanations. " +
	"Use clear, student-friendly language and cite relevant anatomical functions when useful."

// BuildPrompt renders the conversation into one study prompt: tutor
// guidance, a Learner/Guide transcript of the text-bearing turns, and a
// closing instruction.
func BuildPrompt(messages []schema.Message) string {
	var lines []string
	for _, msg := range messages {
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}
		switch msg.Role {
		case "user":
			lines = append(lines, "Learner: "+text)
		case "assistant":
			lines = append(lines, "Guide: "+text)
		}
	}

	var b strings.Builder
	b.WriteString(promptGuidance)
	b.WriteString("\n\nConversation so far:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nProvide a focused response to the learner's most recent message.")
	return b.String()
}

// BuildPrompt renders the study prompt for the pipeline's secondary branch.
func (s *Service) BuildPrompt(messages []schema.Message) string {
	return BuildPrompt(messages)
}
