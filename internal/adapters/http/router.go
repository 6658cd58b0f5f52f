package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/observability/metrics"
)

const serviceName = "api"

// TrafficControl bounds inbound load before requests reach the pipeline.
type TrafficControl struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
	WaitTimeout    time.Duration
}

type Router struct {
	query      ports.InterviewQueryService
	sessions   ports.SessionManager
	monitoring ports.MonitoringService
	indexer    ports.ProfileIndexer
	metrics    *metrics.HTTPServerMetrics
	traffic    TrafficControl
}

func NewRouter(
	query ports.InterviewQueryService,
	sessions ports.SessionManager,
	monitoring ports.MonitoringService,
	indexer ports.ProfileIndexer,
	serverMetrics *metrics.HTTPServerMetrics,
	traffic TrafficControl,
) *Router {
	return &Router{
		query:      query,
		sessions:   sessions,
		monitoring: monitoring,
		indexer:    indexer,
		metrics:    serverMetrics,
		traffic:    traffic,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/twin/query", rt.twinQuery)
	mux.HandleFunc("/v1/conversation/query", rt.conversationQuery)
	mux.HandleFunc("/v1/conversation/sessions", rt.sessionCollection)
	mux.HandleFunc("/v1/conversation/sessions/", rt.sessionByID)
	mux.HandleFunc("/v1/monitoring/stats", rt.monitoringStats)
	mux.HandleFunc("/v1/monitoring/cache", rt.monitoringCache)
	mux.HandleFunc("/v1/monitoring/analyze", rt.monitoringAnalyze)
	mux.HandleFunc("/v1/interview-types", rt.interviewTypes)
	mux.HandleFunc("/v1/admin/populate", rt.populate)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = backpressureMiddleware(handler, rt.traffic.MaxInFlight, rt.traffic.WaitTimeout)
	handler = rateLimitMiddleware(handler, rt.traffic.RateLimitRPS, rt.traffic.RateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type queryRequest struct {
	Question      string `json:"question"`
	InterviewType string `json:"interview_type"`
	Mode          string `json:"mode"`
	SessionID     string `json:"session_id"`
	TopK          int    `json:"top_k"`
}

func (rt *Router) twinQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	opts := domain.QueryOptions{
		Mode:          domain.PipelineMode(req.Mode),
		InterviewType: domain.InterviewType(req.InterviewType),
		SessionID:     req.SessionID,
		TopK:          req.TopK,
	}

	result, err := rt.query.Query(r.Context(), req.Question, opts)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	rt.recordQueryMetrics(result)
	writeJSON(w, http.StatusOK, result)
}

// conversationQuery is the memory-mode entry point. A missing session id
// starts a fresh conversation and the id is returned with the answer.
func (rt *Router) conversationQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = rt.sessions.CreateSession()
	}

	opts := domain.QueryOptions{
		Mode:          domain.ModeMemory,
		InterviewType: domain.InterviewType(req.InterviewType),
		SessionID:     sessionID,
		TopK:          req.TopK,
	}

	result, err := rt.query.Query(r.Context(), req.Question, opts)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	rt.recordQueryMetrics(result)
	rt.syncSessionGauge()
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) sessionCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		id := rt.sessions.CreateSession()
		rt.syncSessionGauge()
		writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"sessions": rt.sessions.ListSessions()})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (rt *Router) sessionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/conversation/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		sess, err := rt.sessions.SessionHistory(id)
		if err != nil {
			writeError(w, mapErrorToHTTPStatus(err), err.Error())
			return
		}
		stats, err := rt.sessions.SessionStats(id)
		if err != nil {
			writeError(w, mapErrorToHTTPStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id": sess.ID,
			"history":    sess.History,
			"stats":      stats,
		})
	case http.MethodDelete:
		deleted := rt.sessions.DeleteSession(id)
		rt.syncSessionGauge()
		if !deleted {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (rt *Router) monitoringStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, rt.monitoring.Stats())
}

func (rt *Router) monitoringCache(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rt.monitoring.CacheInfo())
	case http.MethodDelete:
		rt.monitoring.ClearCache()
		writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (rt *Router) monitoringAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": rt.monitoring.Analyze()})
}

func (rt *Router) interviewTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	types := domain.AvailableInterviewTypes()
	configs := make([]domain.InterviewConfig, 0, len(types))
	for _, t := range types {
		cfg, err := domain.GetInterviewConfig(t)
		if err != nil {
			continue
		}
		configs = append(configs, cfg)
	}
	writeJSON(w, http.StatusOK, map[string]any{"interview_types": configs})
}

func (rt *Router) populate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	count, err := rt.indexer.Populate(r.Context())
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"chunks_upserted": count})
}

func (rt *Router) recordQueryMetrics(result *domain.QueryResult) {
	if rt.metrics == nil || result == nil {
		return
	}

	outcome := "success"
	if !result.Success {
		outcome = "failure"
	}
	rt.metrics.RecordPipelineQuery(serviceName, string(result.InterviewType), outcome, result.Metrics.TotalTime, result.Metrics.ResultCount)
	rt.metrics.RecordCacheLookup(serviceName, result.Metrics.CacheHit)
	rt.metrics.RecordStageDuration(serviceName, "enhancement", result.Metrics.EnhancementTime)
	rt.metrics.RecordStageDuration(serviceName, "search", result.Metrics.SearchTime)
	rt.metrics.RecordStageDuration(serviceName, "generation", result.Metrics.GenerationTime)
	rt.metrics.RecordStageDuration(serviceName, "formatting", result.Metrics.FormattingTime)
	for _, source := range result.Sources {
		rt.metrics.RecordRetrievalSource(serviceName, string(source.Source))
	}
	if result.Metrics.TokensUsed > 0 {
		cfg, err := domain.GetInterviewConfig(result.InterviewType)
		if err == nil {
			rt.metrics.RecordTokenUsage(serviceName, cfg.ResponseModel, result.Metrics.TokensUsed, result.Metrics.CostEstimate)
		}
	}
}

func (rt *Router) syncSessionGauge() {
	if rt.metrics == nil {
		return
	}
	rt.metrics.SetActiveSessions(len(rt.sessions.ListSessions()))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
