package ports

import (
	"context"
	"time"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
)

// VectorIndex searches and populates the hosted vector store. Search
// sends raw text; embedding happens server side.
type VectorIndex interface {
	Search(ctx context.Context, text string, topK int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error)
	Upsert(ctx context.Context, chunks []domain.RetrievedChunk) (int, error)
}

// TextGenerator produces chat completions.
type TextGenerator interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// QueryEnhancer rewrites a raw interview question into a retrieval
// query. Implementations must fail soft: callers fall back to the
// original question on error.
type QueryEnhancer interface {
	Enhance(ctx context.Context, question, model string) (string, error)
}

// AnswerFormatter polishes a generated answer for interview delivery.
type AnswerFormatter interface {
	Format(ctx context.Context, question, answer string, config domain.InterviewConfig) (string, error)
}

// SessionStore holds in-memory conversation sessions with sliding
// expiry. Lookups of expired sessions behave as misses.
type SessionStore interface {
	GetOrCreate(id string) domain.ConversationSession
	Get(id string) (domain.ConversationSession, bool)
	Append(id, question, answer string) error
	Context(id string) (string, error)
	Stats(id string) (domain.SessionStats, error)
	Delete(id string) bool
	ActiveSessions() []string
}

// ResultCache memoizes completed pipeline results keyed by normalized
// question and interview type.
type ResultCache interface {
	Get(question string, interviewType domain.InterviewType) (domain.QueryResult, bool)
	Set(question string, interviewType domain.InterviewType, result domain.QueryResult)
	Clear()
	Info() domain.CacheInfo
}

// StatsCollector accumulates per-query metrics and derives advisories.
type StatsCollector interface {
	Record(m domain.QueryMetrics)
	Snapshot() domain.PerformanceStats
	Analyze(cache domain.CacheInfo) []domain.Recommendation
	Reset()
}

// Clock abstracts time for session expiry and metrics.
type Clock interface {
	Now() time.Time
}
