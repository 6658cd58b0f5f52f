package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/observability/metrics"
)

type fakeQueryService struct {
	result       *domain.QueryResult
	err          error
	lastQuestion string
	lastOpts     domain.QueryOptions
}

func (f *fakeQueryService) Query(_ context.Context, question string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	f.lastQuestion = question
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeSessionManager struct {
	nextID   int
	sessions map[string]domain.SessionStats
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: map[string]domain.SessionStats{}}
}

func (f *fakeSessionManager) CreateSession() string {
	f.nextID++
	id := fmt.Sprintf("session_%d", f.nextID)
	f.sessions[id] = domain.SessionStats{}
	return id
}

func (f *fakeSessionManager) SessionHistory(id string) (domain.ConversationSession, error) {
	if _, ok := f.sessions[id]; !ok {
		return domain.ConversationSession{}, fmt.Errorf("history: %w: %s", domain.ErrSessionNotFound, id)
	}
	return domain.ConversationSession{ID: id}, nil
}

func (f *fakeSessionManager) SessionStats(id string) (domain.SessionStats, error) {
	stats, ok := f.sessions[id]
	if !ok {
		return domain.SessionStats{}, fmt.Errorf("stats: %w: %s", domain.ErrSessionNotFound, id)
	}
	return stats, nil
}

func (f *fakeSessionManager) DeleteSession(id string) bool {
	_, ok := f.sessions[id]
	delete(f.sessions, id)
	return ok
}

func (f *fakeSessionManager) ListSessions() []string {
	ids := make([]string, 0, len(f.sessions))
	for id := range f.sessions {
		ids = append(ids, id)
	}
	return ids
}

type fakeMonitoring struct {
	stats   domain.PerformanceStats
	info    domain.CacheInfo
	advice  []domain.Recommendation
	cleared bool
}

func (f *fakeMonitoring) Stats() domain.PerformanceStats   { return f.stats }
func (f *fakeMonitoring) CacheInfo() domain.CacheInfo      { return f.info }
func (f *fakeMonitoring) Analyze() []domain.Recommendation { return f.advice }
func (f *fakeMonitoring) ClearCache()                      { f.cleared = true }

type fakeIndexer struct {
	count int
	err   error
}

func (f *fakeIndexer) Populate(_ context.Context) (int, error) {
	return f.count, f.err
}

type routerFixture struct {
	query      *fakeQueryService
	sessions   *fakeSessionManager
	monitoring *fakeMonitoring
	indexer    *fakeIndexer
	handler    http.Handler
}

func newRouterFixture(traffic TrafficControl) *routerFixture {
	query := &fakeQueryService{
		result: &domain.QueryResult{
			Success:       true,
			Answer:        "I built a RAG pipeline at AUSBIZ.",
			Question:      "Tell me about your projects",
			InterviewType: domain.InterviewBehavioral,
			Intent:        domain.IntentProjects,
		},
	}
	sessions := newFakeSessionManager()
	monitoring := &fakeMonitoring{
		info: domain.CacheInfo{Size: 10, MaxSize: 100, Utilization: 0.1},
	}
	indexer := &fakeIndexer{count: 12}

	rt := NewRouter(query, sessions, monitoring, indexer, metrics.NewHTTPServerMetrics("api"), traffic)
	return &routerFixture{
		query:      query,
		sessions:   sessions,
		monitoring: monitoring,
		indexer:    indexer,
		handler:    rt.Handler(),
	}
}

func (f *routerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)
	return res
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture(TrafficControl{})
	res := f.do(t, http.MethodGet, "/healthz", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestTwinQuery(t *testing.T) {
	f := newRouterFixture(TrafficControl{})
	res := f.do(t, http.MethodPost, "/v1/twin/query", `{"question":"Tell me about your projects","interview_type":"technical_interview","mode":"enhanced","top_k":3}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var result domain.QueryResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Success || result.Answer == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if f.query.lastOpts.InterviewType != domain.InterviewTechnical {
		t.Fatalf("expected technical interview type, got %q", f.query.lastOpts.InterviewType)
	}
	if f.query.lastOpts.Mode != domain.ModeEnhanced {
		t.Fatalf("expected enhanced mode, got %q", f.query.lastOpts.Mode)
	}
	if f.query.lastOpts.TopK != 3 {
		t.Fatalf("expected top_k 3, got %d", f.query.lastOpts.TopK)
	}
}

func TestTwinQueryInvalidJSON(t *testing.T) {
	f := newRouterFixture(TrafficControl{})
	res := f.do(t, http.MethodPost, "/v1/twin/query", "{not json")
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestTwinQueryInvalidInputMapsTo400(t *testing.T) {
	f := newRouterFixture(TrafficControl{})
	f.query.err = domain.WrapError(domain.ErrInvalidInput, "validate_question", fmt.Errorf("question is empty"))
	res := f.do(t, http.MethodPost, "/v1/twin/query", `{"question":""}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestConversationQueryCreatesSession(t *testing.T) {
	f := newRouterFixture(TrafficControl{})
	res := f.do(t, http.MethodPost, "/v1/conversation/query", `{"question":"What did you build?"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if f.query.lastOpts.Mode != domain.ModeMemory {
		t.Fatalf("expected memory mode, got %q", f.query.lastOpts.Mode)
	}
	if f.query.lastOpts.SessionID == "" {
		t.Fatalf("expected a generated session id")
	}
}

func TestConversationQueryReusesSession(t *testing.T) {
	f := newRouterFixture(TrafficControl{})
	res := f.do(t, http.MethodPost, "/v1/conversation/query", `{"question":"What did you build?","session_id":"session_abc"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if f.query.lastOpts.SessionID != "session_abc" {
		t.Fatalf("expected session_abc, got %q", f.query.lastOpts.SessionID)
	}
}

func TestSessionLifecycle(t *testing.T) {
	f := newRouterFixture(TrafficControl{})

	res := f.do(t, http.MethodPost, "/v1/conversation/sessions", "")
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.Code)
	}
	var created map[string]string
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatalf("decode created session: %v", err)
	}
	id := created["session_id"]
	if id == "" {
		t.Fatalf("expected session id in response")
	}

	res = f.do(t, http.MethodGet, "/v1/conversation/sessions", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for list, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), id) {
		t.Fatalf("expected %q in session list, got %s", id, res.Body.String())
	}

	res = f.do(t, http.MethodGet, "/v1/conversation/sessions/"+id, "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for stats, got %d", res.Code)
	}

	res = f.do(t, http.MethodDelete, "/v1/conversation/sessions/"+id, "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", res.Code)
	}

	res = f.do(t, http.MethodGet, "/v1/conversation/sessions/"+id, "")
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted session, got %d", res.Code)
	}
	res = f.do(t, http.MethodDelete, "/v1/conversation/sessions/"+id, "")
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for double delete, got %d", res.Code)
	}
}

func TestMonitoringEndpoints(t *testing.T) {
	f := newRouterFixture(TrafficControl{})
	f.monitoring.advice = []domain.Recommendation{
		{Type: domain.RecommendationCache, Severity: domain.SeverityWarning, Message: "Low cache hit rate: 10.0%"},
	}

	res := f.do(t, http.MethodGet, "/v1/monitoring/stats", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for stats, got %d", res.Code)
	}

	res = f.do(t, http.MethodGet, "/v1/monitoring/cache", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for cache info, got %d", res.Code)
	}
	var info domain.CacheInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		t.Fatalf("decode cache info: %v", err)
	}
	if info.Size != 10 {
		t.Fatalf("expected size 10, got %d", info.Size)
	}

	res = f.do(t, http.MethodGet, "/v1/monitoring/analyze", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for analyze, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Low cache hit rate") {
		t.Fatalf("expected recommendation in body, got %s", res.Body.String())
	}

	res = f.do(t, http.MethodDelete, "/v1/monitoring/cache", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for cache clear, got %d", res.Code)
	}
	if !f.monitoring.cleared {
		t.Fatalf("expected cache clear to reach the monitoring service")
	}
}

func TestInterviewTypesEndpoint(t *testing.T) {
	f := newRouterFixture(TrafficControl{})
	res := f.do(t, http.MethodGet, "/v1/interview-types", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var payload struct {
		InterviewTypes []domain.InterviewConfig `json:"interview_types"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode interview types: %v", err)
	}
	if len(payload.InterviewTypes) != 6 {
		t.Fatalf("expected 6 interview types, got %d", len(payload.InterviewTypes))
	}
}

func TestPopulateEndpoint(t *testing.T) {
	f := newRouterFixture(TrafficControl{})
	res := f.do(t, http.MethodPost, "/v1/admin/populate", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "12") {
		t.Fatalf("expected upsert count in body, got %s", res.Body.String())
	}

	res = f.do(t, http.MethodGet, "/v1/admin/populate", "")
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	f := newRouterFixture(TrafficControl{RateLimitRPS: 1, RateLimitBurst: 1})

	res1 := f.do(t, http.MethodGet, "/healthz", "")
	if res1.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", res1.Code)
	}

	res2 := f.do(t, http.MethodGet, "/healthz", "")
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}
}

func TestBackpressureMiddlewareReturns503WhenSaturated(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan int, 1)

	base := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.WriteHeader(http.StatusNoContent)
	})
	handler := backpressureMiddleware(base, 1, 20*time.Millisecond)

	go func() {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		done <- res.Code
	}()

	<-started

	req2 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, req2)
	if res2.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for saturated backpressure gate, got %d", res2.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(bytes.NewReader(res2.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("decode overload response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected overload error message in response")
	}

	close(release)

	select {
	case code := <-done:
		if code != http.StatusNoContent {
			t.Fatalf("first request expected 204, got %d", code)
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("timed out waiting for first request completion")
	}
}
