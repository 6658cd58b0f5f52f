package usecase

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

// SessionUseCase manages conversation session lifecycle on top of the
// in-memory store.
type SessionUseCase struct {
	store ports.SessionStore
}

func NewSessionUseCase(store ports.SessionStore) *SessionUseCase {
	return &SessionUseCase{store: store}
}

func (uc *SessionUseCase) CreateSession() string {
	id := "session_" + uuid.NewString()
	uc.store.GetOrCreate(id)
	return id
}

func (uc *SessionUseCase) SessionHistory(id string) (domain.ConversationSession, error) {
	sess, ok := uc.store.Get(id)
	if !ok {
		return domain.ConversationSession{}, domain.WrapError(domain.ErrSessionNotFound, "session history", fmt.Errorf("session %s not found", id))
	}
	return sess, nil
}

func (uc *SessionUseCase) SessionStats(id string) (domain.SessionStats, error) {
	return uc.store.Stats(id)
}

func (uc *SessionUseCase) DeleteSession(id string) bool {
	return uc.store.Delete(id)
}

func (uc *SessionUseCase) ListSessions() []string {
	return uc.store.ActiveSessions()
}
