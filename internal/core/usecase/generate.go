package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

// GenerateUseCase turns retrieved chunks into a first-person answer.
// It degrades instead of failing: no chunks yields a fixed
// introduction without an LLM call, and an LLM failure yields a
// sentence built from the top chunk.
type GenerateUseCase struct {
	llm     ports.TextGenerator
	profile domain.Profile
}

func NewGenerateUseCase(llm ports.TextGenerator, profile domain.Profile) *GenerateUseCase {
	return &GenerateUseCase{llm: llm, profile: profile}
}

// Generate answers the question from the given chunks. The returned
// bool reports whether the LLM produced the answer.
func (uc *GenerateUseCase) Generate(ctx context.Context, question string, chunks []domain.RetrievedChunk, config domain.InterviewConfig, sessionContext string) (string, bool) {
	if len(chunks) == 0 {
		return uc.profile.Introduction(), false
	}

	req := domain.CompletionRequest{
		System:      uc.systemPrompt(question),
		Prompt:      uc.userPrompt(question, chunks, sessionContext),
		Model:       config.ResponseModel,
		Temperature: config.Temperature,
		MaxTokens:   config.MaxTokens,
	}

	answer, err := uc.llm.Complete(ctx, req)
	if err != nil || strings.TrimSpace(answer) == "" {
		top := chunks[0]
		return fmt.Sprintf("Hello! I'm %s. %s", uc.profile.Personal.Name, top.Content), false
	}
	return answer, true
}

func (uc *GenerateUseCase) systemPrompt(question string) string {
	intent := domain.ClassifyIntent(question)
	personal := uc.profile.Personal
	return fmt.Sprintf(`You are %[1]s's AI digital twin. Answer questions as if you are %[1]s, speaking in first person about your background, skills, and experience.

Key Personal Info:
- Name: %[1]s
- Title: %[2]s
- Location: %[3]s
- Summary: %[4]s

%[5]s

Always respond professionally and authentically as %[1]s. Be specific about your experience and achievements. Use quantified metrics when available.`,
		personal.Name, personal.Title, personal.Location, personal.Summary, intentEmphasis(intent))
}

func (uc *GenerateUseCase) userPrompt(question string, chunks []domain.RetrievedChunk, sessionContext string) string {
	var b strings.Builder
	b.WriteString("Based on the following information about yourself, answer the question.\n\n")
	if sessionContext != "" {
		b.WriteString(sessionContext)
		b.WriteString("\n\n")
	}
	b.WriteString("Your Professional Information:\n")
	for i, chunk := range chunks {
		title := chunk.Title
		if title == "" {
			title = "Information"
		}
		fmt.Fprintf(&b, "%d. %s: %s\n\n", i+1, title, chunk.Content)
	}
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Provide a helpful, professional response in first person:")
	return b.String()
}

func intentEmphasis(intent domain.QueryIntent) string {
	switch intent {
	case domain.IntentExperience:
		return "Focus on work experience, achievements in STAR format, and professional accomplishments with quantified results."
	case domain.IntentSkills:
		return "Emphasize technical skills with proficiency levels (1-5 scale), programming languages with years of experience, tools, and specific expertise areas."
	case domain.IntentProjects:
		return "Describe specific projects using STAR format (Situation, Task, Action, Result), technologies used, quantified outcomes, and business impact."
	case domain.IntentEducation:
		return "Highlight educational background, degrees with timelines, certifications, and key academic projects with outcomes."
	case domain.IntentCareerGoals:
		return "Discuss career aspirations, learning goals, and industry interests with specific examples."
	default:
		return "Provide comprehensive information about the topic."
	}
}
