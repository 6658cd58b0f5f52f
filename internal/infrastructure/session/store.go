package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

const (
	// DefaultMaxPairs bounds history to the last N question/answer pairs.
	DefaultMaxPairs = 10
	// DefaultTimeout is the sliding idle window after which a session expires.
	DefaultTimeout = 30 * time.Minute
	// DefaultContextTokenBudget caps the rendered context, at roughly
	// four characters per token.
	DefaultContextTokenBudget = 2000

	trimmedPairs = 3
)

// Store is an in-memory session store with sliding expiry. Expired
// sessions are swept lazily on access, so idle sessions cost nothing
// until touched.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.ConversationSession

	maxPairs    int
	timeout     time.Duration
	tokenBudget int
	clock       ports.Clock
}

type Option func(*Store)

func WithMaxPairs(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxPairs = n
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithContextTokenBudget(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.tokenBudget = n
		}
	}
}

func New(clock ports.Clock, opts ...Option) *Store {
	s := &Store{
		sessions:    make(map[string]*domain.ConversationSession),
		maxPairs:    DefaultMaxPairs,
		timeout:     DefaultTimeout,
		tokenBudget: DefaultContextTokenBudget,
		clock:       clock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns a copy of the session, creating it if absent or
// expired. Access refreshes the expiry window.
func (s *Store) GetOrCreate(id string) domain.ConversationSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.liveSession(id)
	if sess == nil {
		now := s.clock.Now()
		sess = &domain.ConversationSession{ID: id, CreatedAt: now, LastAccessedAt: now}
		s.sessions[id] = sess
	}
	return s.snapshot(sess)
}

// Get returns a copy of an existing session without creating one.
func (s *Store) Get(id string) (domain.ConversationSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.liveSession(id)
	if sess == nil {
		return domain.ConversationSession{}, false
	}
	return s.snapshot(sess), true
}

// Append records one question/answer pair and trims history to the
// configured pair budget.
func (s *Store) Append(id, question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.liveSession(id)
	if sess == nil {
		now := s.clock.Now()
		sess = &domain.ConversationSession{ID: id, CreatedAt: now, LastAccessedAt: now}
		s.sessions[id] = sess
	}

	now := s.clock.Now()
	sess.History = append(sess.History,
		domain.ConversationTurn{Role: domain.RoleUser, Content: question, Timestamp: now},
		domain.ConversationTurn{Role: domain.RoleAssistant, Content: answer, Timestamp: now},
	)
	if max := s.maxPairs * 2; len(sess.History) > max {
		sess.History = sess.History[len(sess.History)-max:]
	}
	sess.LastAccessedAt = now
	return nil
}

// Context renders the history for prompt injection. When the full
// rendering exceeds the token budget it falls back to the last few
// pairs under a "Recent conversation" label.
func (s *Store) Context(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.liveSession(id)
	if sess == nil {
		return "", domain.WrapError(domain.ErrSessionNotFound, "session context", fmt.Errorf("session %s not found", id))
	}
	if len(sess.History) == 0 {
		return "", nil
	}

	full := renderTurns("Previous conversation:", sess.History)
	if len(full)/4 <= s.tokenBudget {
		return full, nil
	}

	recent := sess.History
	if keep := trimmedPairs * 2; len(recent) > keep {
		recent = recent[len(recent)-keep:]
	}
	return renderTurns("Recent conversation:", recent), nil
}

func (s *Store) Stats(id string) (domain.SessionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.liveSession(id)
	if sess == nil {
		return domain.SessionStats{}, domain.WrapError(domain.ErrSessionNotFound, "session stats", fmt.Errorf("session %s not found", id))
	}
	now := s.clock.Now()
	return domain.SessionStats{
		TurnCount:  len(sess.History),
		SessionAge: now.Sub(sess.CreatedAt),
		LastActive: now.Sub(sess.LastAccessedAt),
	}, nil
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *Store) ActiveSessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepExpired()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// liveSession returns the session if present and unexpired, refreshing
// its access time. Callers must hold the lock.
func (s *Store) liveSession(id string) *domain.ConversationSession {
	s.sweepExpired()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	now := s.clock.Now()
	if now.Sub(sess.LastAccessedAt) > s.timeout {
		delete(s.sessions, id)
		return nil
	}
	sess.LastAccessedAt = now
	return sess
}

func (s *Store) sweepExpired() {
	now := s.clock.Now()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastAccessedAt) > s.timeout {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) snapshot(sess *domain.ConversationSession) domain.ConversationSession {
	out := *sess
	out.History = append([]domain.ConversationTurn(nil), sess.History...)
	return out
}

func renderTurns(label string, turns []domain.ConversationTurn) string {
	parts := make([]string, 0, len(turns)+1)
	parts = append(parts, label)
	for _, turn := range turns {
		prefix := "User"
		if turn.Role == domain.RoleAssistant {
			prefix = "Assistant"
		}
		parts = append(parts, prefix+": "+turn.Content)
	}
	return strings.Join(parts, "\n")
}
