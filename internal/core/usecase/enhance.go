package usecase

import (
	"context"
	"strings"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

// EnhanceUseCase rewrites raw interview questions into retrieval
// queries. Enhancement is best effort: any failure returns the
// original question unchanged.
type EnhanceUseCase struct {
	enhancer ports.QueryEnhancer
}

func NewEnhanceUseCase(enhancer ports.QueryEnhancer) *EnhanceUseCase {
	return &EnhanceUseCase{enhancer: enhancer}
}

// Enhance returns the retrieval query and whether rewriting happened.
func (uc *EnhanceUseCase) Enhance(ctx context.Context, question string, config domain.InterviewConfig) (string, bool) {
	if !config.EnableEnhancement || uc.enhancer == nil {
		return question, false
	}

	enhanced, err := uc.enhancer.Enhance(ctx, question, config.QueryModel)
	if err != nil {
		return question, false
	}
	enhanced = strings.TrimSpace(enhanced)
	if enhanced == "" {
		return question, false
	}
	return enhanced, true
}
