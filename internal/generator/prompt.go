package generator

import (
	"fmt"
	"strings"

	"github.com/tharun242005/EMPATH-AI/internal/models"
)

// replyPrefixes are labels the backend sometimes prepends to its answer.
var replyPrefixes = []string{"EmpathAI:", "AI:", "Response:"}

func stripReplyPrefixes(reply string) string {
	reply = strings.TrimSpace(reply)
	for _, prefix := range replyPrefixes {
		if strings.HasPrefix(reply, prefix) {
			reply = strings.TrimSpace(strings.TrimPrefix(reply, prefix))
		}
	}
	return reply
}

// buildPrompt assembles the full prompt: system framing, optional web context
// block, up to 6 prior turns, the current message, and structured context.
func buildPrompt(req Request, tier models.Severity, webContext string) string {
	var sb strings.Builder

	sb.WriteString("You are EmpathAI, a compassionate AI assistant for emotional support and harassment guidance.\n")
	sb.WriteString("You remember previous conversations and can reference them naturally.\n")

	if webContext != "" {
		fmt.Fprintf(&sb, "\n[Live Web Context: %s]\n", webContext)
	}

	if len(req.History) > 0 {
		sb.WriteString("\nPrevious conversation:\n")
		for _, turn := range req.History {
			label := "User"
			if turn.Role == models.RoleAssistant {
				label = "EmpathAI"
			}
			fmt.Fprintf(&sb, "%s: %s\n", label, turn.Text)
		}
	}

	fmt.Fprintf(&sb, "\nCurrent USER MESSAGE: %q\n", req.Message)

	sb.WriteString("\nCONTEXT:\n")
	fmt.Fprintf(&sb, "- Emotion: %s\n", req.Emotion)
	fmt.Fprintf(&sb, "- Harassment Detected: %t\n", req.IsHarassment)
	fmt.Fprintf(&sb, "- Severity: %s\n", tier)
	fmt.Fprintf(&sb, "- Confidence Score: %.2f\n", req.Score)
	if webContext != "" {
		sb.WriteString("- Web Search Enabled: Using live information\n")
	}

	sb.WriteString(`
RESPONSE GUIDELINES:
1. Provide warm, empathetic, psychologically safe support
2. Keep response conversational (3-5 sentences)
3. Reference previous conversation naturally if relevant
4. If web context is provided, incorporate factual information naturally
5. If harassment is detected, offer specific guidance on legal rights, mental health resources and safety measures
6. Use natural language - avoid robotic phrases
7. Include one supportive emoji if appropriate
8. Focus on user's wellbeing and validation

Generate your response:`)

	return sb.String()
}

// buildShortPrompt is the strictly smaller variant used after an
// output-truncation signal.
func buildShortPrompt(req Request) string {
	return fmt.Sprintf(`Provide empathetic support for this message: %q

Emotion: %s. Harassment: %t.
Respond with warm, supportive 2-3 sentences.`, req.Message, req.Emotion, req.IsHarassment)
}

// emergencyReply is the terminal static fallback, worded by harassment flag.
func emergencyReply(isHarassment bool) string {
	if isHarassment {
		return "I hear you and I want you to know this is completely unacceptable. You deserve to feel safe and respected. Please consider reaching out to trusted support resources - you don't have to face this alone. 💙"
	}
	return "Thank you for sharing this with me. I'm here to listen and support you through whatever you're experiencing. Your feelings matter and you're not alone in this. 🌟"
}
