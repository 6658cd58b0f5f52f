package mcpadapter

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
)

type fakeQueryService struct {
	result   *domain.QueryResult
	lastOpts domain.QueryOptions
}

func (f *fakeQueryService) Query(_ context.Context, _ string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	f.lastOpts = opts
	return f.result, nil
}

type fakeSessionManager struct {
	created int
}

func (f *fakeSessionManager) CreateSession() string {
	f.created++
	return "session_mcp"
}

func (f *fakeSessionManager) SessionHistory(string) (domain.ConversationSession, error) {
	return domain.ConversationSession{}, domain.ErrSessionNotFound
}

func (f *fakeSessionManager) SessionStats(string) (domain.SessionStats, error) {
	return domain.SessionStats{}, domain.ErrSessionNotFound
}

func (f *fakeSessionManager) DeleteSession(string) bool { return false }
func (f *fakeSessionManager) ListSessions() []string    { return nil }

type fakeMonitoring struct{}

func (fakeMonitoring) Stats() domain.PerformanceStats   { return domain.PerformanceStats{} }
func (fakeMonitoring) CacheInfo() domain.CacheInfo      { return domain.CacheInfo{MaxSize: 100} }
func (fakeMonitoring) Analyze() []domain.Recommendation { return nil }
func (fakeMonitoring) ClearCache()                      {}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatalf("expected tool result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func newTestServer() (*Server, *fakeQueryService, *fakeSessionManager) {
	query := &fakeQueryService{
		result: &domain.QueryResult{
			Success:       true,
			Answer:        "I interned at AUSBIZ building RAG systems.",
			InterviewType: domain.InterviewBehavioral,
			Intent:        domain.IntentExperience,
		},
	}
	sessions := &fakeSessionManager{}
	return NewServer("emma-digital-twin", "1.0.0", query, sessions, fakeMonitoring{}), query, sessions
}

func TestQueryDigitalTwinTool(t *testing.T) {
	srv, query, _ := newTestServer()

	result, err := srv.handleQuery(context.Background(), callRequest(map[string]any{
		"question":       "Tell me about your experience",
		"interview_type": "technical_interview",
	}))
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textContent(t, result))
	}
	if query.lastOpts.InterviewType != domain.InterviewTechnical {
		t.Fatalf("expected technical interview type, got %q", query.lastOpts.InterviewType)
	}
	if !strings.Contains(textContent(t, result), "AUSBIZ") {
		t.Fatalf("expected answer in tool output")
	}
}

func TestQueryDigitalTwinToolRequiresQuestion(t *testing.T) {
	srv, _, _ := newTestServer()

	result, err := srv.handleQuery(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected tool error for missing question")
	}
}

func TestQueryWithMemoryCreatesSession(t *testing.T) {
	srv, query, sessions := newTestServer()

	result, err := srv.handleQueryWithMemory(context.Background(), callRequest(map[string]any{
		"question": "What did you build there?",
	}))
	if err != nil {
		t.Fatalf("handleQueryWithMemory: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textContent(t, result))
	}
	if sessions.created != 1 {
		t.Fatalf("expected a session to be created, got %d", sessions.created)
	}
	if query.lastOpts.Mode != domain.ModeMemory {
		t.Fatalf("expected memory mode, got %q", query.lastOpts.Mode)
	}
	if query.lastOpts.SessionID != "session_mcp" {
		t.Fatalf("expected generated session id, got %q", query.lastOpts.SessionID)
	}
}

func TestQueryWithMemoryReusesSession(t *testing.T) {
	srv, query, sessions := newTestServer()

	_, err := srv.handleQueryWithMemory(context.Background(), callRequest(map[string]any{
		"question":   "And after that?",
		"session_id": "session_existing",
	}))
	if err != nil {
		t.Fatalf("handleQueryWithMemory: %v", err)
	}
	if sessions.created != 0 {
		t.Fatalf("expected no session creation, got %d", sessions.created)
	}
	if query.lastOpts.SessionID != "session_existing" {
		t.Fatalf("expected session_existing, got %q", query.lastOpts.SessionID)
	}
}

func TestListInterviewTypesTool(t *testing.T) {
	srv, _, _ := newTestServer()

	result, err := srv.handleListInterviewTypes(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleListInterviewTypes: %v", err)
	}
	text := textContent(t, result)
	for _, want := range []string{"technical_interview", "behavioral_interview", "quick_response"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in tool output", want)
		}
	}
}

func TestPerformanceStatsTool(t *testing.T) {
	srv, _, _ := newTestServer()

	result, err := srv.handlePerformanceStats(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handlePerformanceStats: %v", err)
	}
	if !strings.Contains(textContent(t, result), "cache") {
		t.Fatalf("expected cache section in stats output")
	}
}
