package assistant

import (
	"encoding/json"
	"strings"

	"github.com/bryanwahyu/keynes-workspace/internal/domain/ai"
)

const systemPrompt = `You are KeynesAI, a professional finance analyst assistant. Your role is to help users with financial analysis, data interpretation, and insights.

Please provide a helpful, professional response. If the user is asking about analysis results, reference the specific data. If they're asking about materials, provide insights based on financial analysis best practices.`

// BuildPrompt renders the context and the question into a generation prompt.
func BuildPrompt(c Context, question string) ai.Prompt {
	var b strings.Builder
	if len(c.MaterialNames) > 0 {
		b.WriteString("The user has attached the following materials: ")
		b.WriteString(strings.Join(c.MaterialNames, ", "))
		b.WriteString(".\n\n")
	}
	if len(c.Results) > 0 {
		b.WriteString("Available analysis results:\n")
		for _, r := range c.Results {
			data, err := json.MarshalIndent(r.Payload, "", "  ")
			if err != nil {
				data = []byte("{}")
			}
			b.WriteString("- " + r.ActionLabel + ": " + string(data) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("User question: " + question)
	return ai.Prompt{System: systemPrompt, User: b.String()}
}
