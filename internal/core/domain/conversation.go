package domain

import "time"

type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

type ConversationTurn struct {
	Role      TurnRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ConversationSession struct {
	ID             string             `json:"session_id"`
	History        []ConversationTurn `json:"history"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
}

type SessionStats struct {
	TurnCount  int           `json:"turn_count"`
	SessionAge time.Duration `json:"session_age"`
	LastActive time.Duration `json:"last_active"`
}
