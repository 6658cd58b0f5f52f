package domain

import "time"

// QueryMetrics is the per-call measurement record. Every response
// returned to a caller carries one, zeroed on total failure, so the
// metrics contract stays uniform across success, degradation and error.
type QueryMetrics struct {
	EnhancementTime time.Duration `json:"enhancement_time_ms"`
	SearchTime      time.Duration `json:"search_time_ms"`
	GenerationTime  time.Duration `json:"generation_time_ms"`
	FormattingTime  time.Duration `json:"formatting_time_ms"`
	TotalTime       time.Duration `json:"total_time_ms"`
	TokensUsed      int           `json:"tokens_used"`
	CostEstimate    float64       `json:"cost_estimate"`
	CacheHit        bool          `json:"cache_hit"`
	InterviewType   InterviewType `json:"interview_type,omitempty"`
	ResultCount     int           `json:"result_count"`
}

// PerformanceStats is the process-wide aggregate maintained by the
// stats collector. Means are updated incrementally, never recomputed.
type PerformanceStats struct {
	TotalQueries  int                             `json:"total_queries"`
	CacheHits     int                             `json:"cache_hits"`
	CacheMisses   int                             `json:"cache_misses"`
	CacheHitRate  float64                         `json:"cache_hit_rate"`
	AvgQueryTime  time.Duration                   `json:"avg_query_time_ms"`
	AvgTokensUsed float64                         `json:"avg_tokens_used"`
	TotalCost     float64                         `json:"total_cost"`
	QueriesByType map[InterviewType]int           `json:"queries_by_type"`
	AvgTimeByType map[InterviewType]time.Duration `json:"avg_time_by_type"`
}

type RecommendationType string

const (
	RecommendationModel         RecommendationType = "model"
	RecommendationCache         RecommendationType = "cache"
	RecommendationConfiguration RecommendationType = "configuration"
	RecommendationCost          RecommendationType = "cost"
)

type RecommendationSeverity string

const (
	SeverityInfo     RecommendationSeverity = "info"
	SeverityWarning  RecommendationSeverity = "warning"
	SeverityCritical RecommendationSeverity = "critical"
)

// Recommendation is an informational advisory produced by the stats
// analyzer. Advisories never alter runtime behavior.
type Recommendation struct {
	Type       RecommendationType     `json:"type"`
	Severity   RecommendationSeverity `json:"severity"`
	Message    string                 `json:"message"`
	Suggestion string                 `json:"suggestion"`
	Impact     string                 `json:"impact"`
}

type CacheInfo struct {
	Size        int     `json:"size"`
	MaxSize     int     `json:"max_size"`
	Hits        int     `json:"hits"`
	Utilization float64 `json:"utilization"`
}
