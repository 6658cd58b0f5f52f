package groq

import (
	"context"
	"fmt"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
)

const formatTemperature = 0.3

// Formatter polishes generated answers for interview delivery.
// Story-driven interview types get a STAR coaching pass; the rest get
// a conciseness pass. Formatting runs on the fast model either way.
type Formatter struct {
	client *Client
}

func NewFormatter(client *Client) *Formatter {
	return &Formatter{client: client}
}

// Format implements ports.AnswerFormatter. Never retried; the caller
// delivers the unformatted answer on failure.
func (f *Formatter) Format(ctx context.Context, question, answer string, config domain.InterviewConfig) (string, error) {
	var prompt string
	switch config.Type {
	case domain.InterviewBehavioral, domain.InterviewExecutive, domain.InterviewCulturalFit:
		prompt = starPrompt(question, answer, config.Tone)
	default:
		prompt = concisePrompt(question, answer)
	}

	return f.client.chat(ctx, "response_formatting", 1, chatRequest{
		Model:       config.QueryModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: formatTemperature,
		MaxTokens:   config.MaxTokens,
	})
}

func concisePrompt(question, answer string) string {
	return fmt.Sprintf(`You are answering an interview question. Answer directly and concisely in first person.

Question: %q

Your Professional Background:
%s

Instructions:
- Answer the SPECIFIC question asked - don't give extra information
- Be direct and concise (2-3 sentences maximum for simple questions)
- Use first person ("I", "my")
- For simple factual questions (where, when, what), give a direct answer
- Include specific details from your background

Your answer:`, question, answer)
}

func starPrompt(question, answer string, tone domain.ResponseTone) string {
	return fmt.Sprintf(`You are an expert interview coach. Create a compelling interview response using this professional data.

Question: %q

Professional Background Data:
%s

Create a response that:
- Directly addresses the interview question
- IMPORTANT: Structure the response using STAR format (Situation-Task-Action-Result) with clear metrics and outcomes.
- Emphasize quantifiable achievements: percentages, time saved, efficiency gains, user numbers, revenue impact, etc.
- %s
- Sounds natural for an interview setting
- Highlights unique value and differentiators
- Includes relevant technical details without being overwhelming

Interview Response:`, question, answer, toneInstructions(tone))
}

func toneInstructions(tone domain.ResponseTone) string {
	switch tone {
	case domain.ToneConfident:
		return "Use a confident, assertive tone that demonstrates expertise and leadership."
	case domain.ToneHumble:
		return "Use a humble, collaborative tone that emphasizes team contributions."
	default:
		return "Use a balanced tone that is confident but not arrogant, highlighting both individual and team achievements."
	}
}
