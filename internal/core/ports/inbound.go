package ports

import (
	"context"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
)

// InterviewQueryService is the inbound contract for answering interview
// questions through the retrieval pipeline.
type InterviewQueryService interface {
	Query(ctx context.Context, question string, opts domain.QueryOptions) (*domain.QueryResult, error)
}

// SessionManager is the inbound contract for conversation session lifecycle.
type SessionManager interface {
	CreateSession() string
	SessionHistory(id string) (domain.ConversationSession, error)
	SessionStats(id string) (domain.SessionStats, error)
	DeleteSession(id string) bool
	ListSessions() []string
}

// MonitoringService exposes pipeline performance state.
type MonitoringService interface {
	Stats() domain.PerformanceStats
	CacheInfo() domain.CacheInfo
	Analyze() []domain.Recommendation
	ClearCache()
}

// ProfileIndexer pushes the profile corpus into the vector store.
type ProfileIndexer interface {
	Populate(ctx context.Context) (int, error)
}
