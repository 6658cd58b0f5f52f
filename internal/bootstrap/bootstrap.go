package bootstrap

import (
	"fmt"
	"time"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/config"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/usecase"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/infrastructure/cache"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/infrastructure/llm/groq"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/infrastructure/profile"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/infrastructure/resilience"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/infrastructure/session"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/infrastructure/vector/upstash"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/observability/metrics"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/observability/stats"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type App struct {
	Config  config.Config
	Profile domain.Profile

	QueryUC      ports.InterviewQueryService
	SessionUC    ports.SessionManager
	MonitoringUC ports.MonitoringService
	PopulateUC   ports.ProfileIndexer

	Metrics *metrics.HTTPServerMetrics
}

func New(cfg config.Config) (*App, error) {
	prof, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	exec := resilience.NewExecutor(resilience.DefaultConfig())
	clock := systemClock{}

	groqClient := groq.New(cfg.GroqBaseURL, cfg.GroqAPIKey, exec)
	enhancer := groq.NewEnhancer(groqClient, cfg.EnhancementCacheTTL)
	formatter := groq.NewFormatter(groqClient)

	vectorIndex := upstash.New(cfg.UpstashVectorURL, cfg.UpstashVectorToken, exec)

	sessionStore := session.New(clock,
		session.WithMaxPairs(cfg.SessionMaxPairs),
		session.WithTimeout(cfg.SessionTimeout),
		session.WithContextTokenBudget(cfg.SessionContextTokens),
	)
	resultCache := cache.New(clock,
		cache.WithMaxSize(cfg.CacheMaxSize),
		cache.WithTTL(cfg.CacheTTL),
	)
	collector := stats.NewCollector()

	enhanceUC := usecase.NewEnhanceUseCase(enhancer)
	retrieveUC := usecase.NewRetrieveUseCase(vectorIndex, prof)
	generateUC := usecase.NewGenerateUseCase(groqClient, prof)
	formatUC := usecase.NewFormatUseCase(formatter)

	pipelineUC := usecase.NewPipelineUseCase(
		enhanceUC,
		retrieveUC,
		generateUC,
		formatUC,
		resultCache,
		sessionStore,
		collector,
		clock,
	)

	return &App{
		Config:       cfg,
		Profile:      prof,
		QueryUC:      pipelineUC,
		SessionUC:    usecase.NewSessionUseCase(sessionStore),
		MonitoringUC: usecase.NewMonitoringUseCase(collector, resultCache),
		PopulateUC:   usecase.NewPopulateUseCase(vectorIndex, prof),
		Metrics:      metrics.NewHTTPServerMetrics("api"),
	}, nil
}
