package usecase

import (
	"context"
	"fmt"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

const failureAnswer = "I apologize, but I'm having trouble processing your question right now. Please try again in a moment."

// PipelineUseCase orchestrates the enhance/retrieve/generate/format
// chain. Each stage degrades independently; if the enhanced chain still
// fails, the query is retried once in basic mode before the orchestrator
// returns a structured failure. Callers always receive a result.
type PipelineUseCase struct {
	enhance  *EnhanceUseCase
	retrieve *RetrieveUseCase
	generate *GenerateUseCase
	format   *FormatUseCase
	cache    ports.ResultCache
	sessions ports.SessionStore
	stats    ports.StatsCollector
	clock    ports.Clock
}

func NewPipelineUseCase(
	enhance *EnhanceUseCase,
	retrieve *RetrieveUseCase,
	generate *GenerateUseCase,
	format *FormatUseCase,
	cache ports.ResultCache,
	sessions ports.SessionStore,
	stats ports.StatsCollector,
	clock ports.Clock,
) *PipelineUseCase {
	return &PipelineUseCase{
		enhance:  enhance,
		retrieve: retrieve,
		generate: generate,
		format:   format,
		cache:    cache,
		sessions: sessions,
		stats:    stats,
		clock:    clock,
	}
}

// Query answers an interview question. Validation errors are the only
// hard errors; pipeline trouble surfaces as a result with Success=false.
func (uc *PipelineUseCase) Query(ctx context.Context, question string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	if err := domain.ValidateQuestion(question); err != nil {
		return nil, err
	}

	interviewType := opts.InterviewType
	if interviewType == "" {
		interviewType = domain.DetectInterviewType(question)
	}
	config, err := domain.GetInterviewConfig(interviewType)
	if err != nil {
		return nil, err
	}
	mode := opts.Mode
	if mode == "" {
		mode = domain.ModeEnhanced
	}
	switch mode {
	case domain.ModeBasic, domain.ModeEnhanced, domain.ModeMemory, domain.ModeContextOnly:
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate mode", fmt.Errorf("unknown pipeline mode %q", mode))
	}

	// Session context makes identical questions non-identical, so
	// memory mode bypasses the result cache.
	cacheable := uc.cache != nil && (mode == domain.ModeBasic || mode == domain.ModeEnhanced)
	if cacheable {
		lookupStart := uc.clock.Now()
		if cached, ok := uc.cache.Get(question, interviewType); ok {
			// A hit reports the lookup's latency, not the cached
			// run's; stage timings belong to the original run.
			cached.Metrics.CacheHit = true
			cached.Metrics.EnhancementTime = 0
			cached.Metrics.SearchTime = 0
			cached.Metrics.GenerationTime = 0
			cached.Metrics.FormattingTime = 0
			cached.Metrics.TotalTime = uc.clock.Now().Sub(lookupStart)
			uc.stats.Record(cached.Metrics)
			return &cached, nil
		}
	}

	result, runErr := uc.run(ctx, question, interviewType, config, mode, opts)
	if runErr != nil && mode != domain.ModeBasic {
		result, runErr = uc.run(ctx, question, interviewType, config, domain.ModeBasic, opts)
	}
	if runErr != nil {
		failed := &domain.QueryResult{
			Success:       false,
			Answer:        failureAnswer,
			Question:      question,
			InterviewType: interviewType,
			Intent:        domain.ClassifyIntent(question),
			Metrics:       domain.QueryMetrics{InterviewType: interviewType},
		}
		uc.stats.Record(failed.Metrics)
		return failed, nil
	}

	uc.stats.Record(result.Metrics)
	if cacheable && result.Success {
		uc.cache.Set(question, interviewType, *result)
	}
	return result, nil
}

// run executes one pass of the pipeline in the given mode.
func (uc *PipelineUseCase) run(ctx context.Context, question string, interviewType domain.InterviewType, config domain.InterviewConfig, mode domain.PipelineMode, opts domain.QueryOptions) (*domain.QueryResult, error) {
	start := uc.clock.Now()
	metrics := domain.QueryMetrics{InterviewType: interviewType}
	intent := domain.ClassifyIntent(question)

	searchQuery := question
	enhanced := false
	if mode == domain.ModeEnhanced || mode == domain.ModeMemory {
		stageStart := uc.clock.Now()
		searchQuery, enhanced = uc.enhance.Enhance(ctx, question, config)
		metrics.EnhancementTime = uc.clock.Now().Sub(stageStart)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled after enhancement: %w", err)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = config.TopK
	}
	stageStart := uc.clock.Now()
	chunks := uc.retrieve.Retrieve(ctx, searchQuery, topK, domain.SearchFilter{})
	metrics.SearchTime = uc.clock.Now().Sub(stageStart)
	metrics.ResultCount = len(chunks)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled after retrieval: %w", err)
	}

	result := &domain.QueryResult{
		Success:       true,
		Question:      question,
		InterviewType: interviewType,
		Intent:        intent,
		Sources:       sourceRefs(chunks),
		SessionID:     opts.SessionID,
	}
	if enhanced {
		result.EnhancedQuery = searchQuery
	}

	if mode == domain.ModeContextOnly {
		result.Chunks = chunks
		metrics.TotalTime = uc.clock.Now().Sub(start)
		result.Metrics = metrics
		return result, nil
	}

	sessionContext := ""
	if mode == domain.ModeMemory && opts.SessionID != "" {
		uc.sessions.GetOrCreate(opts.SessionID)
		sessionContext, _ = uc.sessions.Context(opts.SessionID)
	}

	stageStart = uc.clock.Now()
	answer, fromLLM := uc.generate.Generate(ctx, question, chunks, config, sessionContext)
	metrics.GenerationTime = uc.clock.Now().Sub(stageStart)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled after generation: %w", err)
	}

	if fromLLM && (mode == domain.ModeEnhanced || mode == domain.ModeMemory) {
		stageStart = uc.clock.Now()
		answer = uc.format.Format(ctx, question, answer, config)
		metrics.FormattingTime = uc.clock.Now().Sub(stageStart)
	}

	result.Answer = answer
	metrics.TotalTime = uc.clock.Now().Sub(start)

	queryTokens := domain.EstimateTokens(question) * 3
	responseTokens := domain.EstimateTokens(answer) + domain.EstimateTokens(question)*3
	metrics.TokensUsed = queryTokens + responseTokens
	metrics.CostEstimate = domain.EstimateCost(queryTokens, config.QueryModel) +
		domain.EstimateCost(responseTokens, config.ResponseModel)
	result.Metrics = metrics

	if mode == domain.ModeMemory && opts.SessionID != "" {
		if err := uc.sessions.Append(opts.SessionID, question, answer); err != nil {
			return nil, fmt.Errorf("append session turn: %w", err)
		}
	}
	return result, nil
}

func sourceRefs(chunks []domain.RetrievedChunk) []domain.SourceRef {
	if len(chunks) == 0 {
		return nil
	}
	refs := make([]domain.SourceRef, 0, len(chunks))
	for _, chunk := range chunks {
		refs = append(refs, domain.SourceRef{
			Title:     chunk.Title,
			Category:  chunk.Category,
			Relevance: chunk.Score,
			Source:    chunk.Source,
		})
	}
	return refs
}
