package usecase

import (
	"context"
	"strings"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

// FormatUseCase adapts a generated answer to the interview style.
// Formatting never blocks delivery: errors pass the answer through.
type FormatUseCase struct {
	formatter ports.AnswerFormatter
}

func NewFormatUseCase(formatter ports.AnswerFormatter) *FormatUseCase {
	return &FormatUseCase{formatter: formatter}
}

func (uc *FormatUseCase) Format(ctx context.Context, question, answer string, config domain.InterviewConfig) string {
	if !config.EnableFormatting || uc.formatter == nil {
		return answer
	}

	formatted, err := uc.formatter.Format(ctx, question, answer, config)
	if err != nil || strings.TrimSpace(formatted) == "" {
		return answer
	}
	return formatted
}
