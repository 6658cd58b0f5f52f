package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

// Server exposes the interview pipeline over the Model Context Protocol so
// MCP clients (Claude Desktop, editors) can talk to the digital twin.
type Server struct {
	mcpServer  *server.MCPServer
	query      ports.InterviewQueryService
	sessions   ports.SessionManager
	monitoring ports.MonitoringService
}

func NewServer(
	name, version string,
	query ports.InterviewQueryService,
	sessions ports.SessionManager,
	monitoring ports.MonitoringService,
) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			name,
			version,
			server.WithToolCapabilities(false),
		),
		query:      query,
		sessions:   sessions,
		monitoring: monitoring,
	}
	s.registerTools()
	return s
}

// ServeStdio blocks serving MCP over stdin/stdout until the client closes
// the stream.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("query_digital_twin",
		mcp.WithDescription("Ask the digital twin an interview question. Detects the interview type automatically unless one is given."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The interview question to answer"),
		),
		mcp.WithString("interview_type",
			mcp.Description("Override the detected interview type (technical_interview, behavioral_interview, executive_interview, cultural_fit, system_design, quick_response)"),
		),
		mcp.WithString("mode",
			mcp.Description("Pipeline mode: basic, enhanced or context"),
		),
	), s.handleQuery)

	s.mcpServer.AddTool(mcp.NewTool("query_with_memory",
		mcp.WithDescription("Ask a question within an ongoing conversation. Pass the session_id from a previous call to keep context; omit it to start a new conversation."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The interview question to answer"),
		),
		mcp.WithString("session_id",
			mcp.Description("Conversation session to continue"),
		),
		mcp.WithString("interview_type",
			mcp.Description("Override the detected interview type"),
		),
	), s.handleQueryWithMemory)

	s.mcpServer.AddTool(mcp.NewTool("list_interview_types",
		mcp.WithDescription("List the supported interview types and their response settings."),
	), s.handleListInterviewTypes)

	s.mcpServer.AddTool(mcp.NewTool("performance_stats",
		mcp.WithDescription("Show pipeline performance statistics, cache state and tuning recommendations."),
	), s.handlePerformanceStats)
}

func (s *Server) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := domain.QueryOptions{
		Mode:          domain.PipelineMode(req.GetString("mode", "")),
		InterviewType: domain.InterviewType(req.GetString("interview_type", "")),
	}

	result, err := s.query.Query(ctx, question, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(queryToolResponse(result))
}

func (s *Server) handleQueryWithMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessionID := strings.TrimSpace(req.GetString("session_id", ""))
	if sessionID == "" {
		sessionID = s.sessions.CreateSession()
	}

	opts := domain.QueryOptions{
		Mode:          domain.ModeMemory,
		InterviewType: domain.InterviewType(req.GetString("interview_type", "")),
		SessionID:     sessionID,
	}

	result, err := s.query.Query(ctx, question, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(queryToolResponse(result))
}

func (s *Server) handleListInterviewTypes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	types := domain.AvailableInterviewTypes()
	configs := make([]domain.InterviewConfig, 0, len(types))
	for _, t := range types {
		cfg, err := domain.GetInterviewConfig(t)
		if err != nil {
			continue
		}
		configs = append(configs, cfg)
	}
	return toolResultJSON(map[string]any{"interview_types": configs})
}

func (s *Server) handlePerformanceStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResultJSON(map[string]any{
		"stats":           s.monitoring.Stats(),
		"cache":           s.monitoring.CacheInfo(),
		"recommendations": s.monitoring.Analyze(),
	})
}

// queryToolResponse trims the pipeline result to what an MCP client needs.
func queryToolResponse(result *domain.QueryResult) map[string]any {
	resp := map[string]any{
		"success":        result.Success,
		"answer":         result.Answer,
		"interview_type": result.InterviewType,
		"intent":         result.Intent,
	}
	if result.EnhancedQuery != "" {
		resp["enhanced_query"] = result.EnhancedQuery
	}
	if result.SessionID != "" {
		resp["session_id"] = result.SessionID
	}
	if len(result.Sources) > 0 {
		resp["sources"] = result.Sources
	}
	resp["metrics"] = map[string]any{
		"total_time_ms": result.Metrics.TotalTime.Milliseconds(),
		"tokens_used":   result.Metrics.TokensUsed,
		"cost_estimate": result.Metrics.CostEstimate,
		"cache_hit":     result.Metrics.CacheHit,
	}
	return resp
}

func toolResultJSON(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
