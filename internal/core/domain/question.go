package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinQuestionLength = 1
	MaxQuestionLength = 500
)

// ValidateQuestion enforces the intake contract. Questions are never
// mutated after validation; the pipeline always works on the original
// string and derives rewrites from it.
func ValidateQuestion(question string) error {
	trimmed := strings.TrimSpace(question)
	if len(trimmed) < MinQuestionLength {
		return WrapError(ErrInvalidInput, "validate question", fmt.Errorf("question cannot be empty"))
	}
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return WrapError(ErrInvalidInput, "validate question", fmt.Errorf("question exceeds %d characters", MaxQuestionLength))
	}
	return nil
}
