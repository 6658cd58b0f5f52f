package stats

import (
	"fmt"
	"sync"
	"time"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
)

// Collector accumulates per-query metrics into running aggregates.
// Means are maintained incrementally so a snapshot is O(1) regardless
// of query volume.
type Collector struct {
	mu sync.Mutex

	totalQueries  int
	cacheHits     int
	cacheMisses   int
	avgQueryTime  time.Duration
	avgTokensUsed float64
	totalCost     float64
	queriesByType map[domain.InterviewType]int
	avgTimeByType map[domain.InterviewType]time.Duration
}

func NewCollector() *Collector {
	return &Collector{
		queriesByType: make(map[domain.InterviewType]int),
		avgTimeByType: make(map[domain.InterviewType]time.Duration),
	}
}

// Record folds one completed call into the aggregates. Cache hits and
// failures count too; the metrics contract is one record per call.
func (c *Collector) Record(m domain.QueryMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalQueries++
	if m.CacheHit {
		c.cacheHits++
	} else {
		c.cacheMisses++
	}

	n := c.totalQueries
	c.avgQueryTime = (c.avgQueryTime*time.Duration(n-1) + m.TotalTime) / time.Duration(n)
	c.avgTokensUsed = (c.avgTokensUsed*float64(n-1) + float64(m.TokensUsed)) / float64(n)
	c.totalCost += m.CostEstimate

	if m.InterviewType != "" {
		c.queriesByType[m.InterviewType]++
		count := c.queriesByType[m.InterviewType]
		prev := c.avgTimeByType[m.InterviewType]
		c.avgTimeByType[m.InterviewType] = (prev*time.Duration(count-1) + m.TotalTime) / time.Duration(count)
	}
}

func (c *Collector) Snapshot() domain.PerformanceStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := domain.PerformanceStats{
		TotalQueries:  c.totalQueries,
		CacheHits:     c.cacheHits,
		CacheMisses:   c.cacheMisses,
		AvgQueryTime:  c.avgQueryTime,
		AvgTokensUsed: c.avgTokensUsed,
		TotalCost:     c.totalCost,
		QueriesByType: make(map[domain.InterviewType]int, len(c.queriesByType)),
		AvgTimeByType: make(map[domain.InterviewType]time.Duration, len(c.avgTimeByType)),
	}
	if c.totalQueries > 0 {
		out.CacheHitRate = float64(c.cacheHits) / float64(c.totalQueries)
	}
	for k, v := range c.queriesByType {
		out.QueriesByType[k] = v
	}
	for k, v := range c.avgTimeByType {
		out.AvgTimeByType[k] = v
	}
	return out
}

// Reset drops all aggregates. Intended for tests and admin tooling.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalQueries = 0
	c.cacheHits = 0
	c.cacheMisses = 0
	c.avgQueryTime = 0
	c.avgTokensUsed = 0
	c.totalCost = 0
	c.queriesByType = make(map[domain.InterviewType]int)
	c.avgTimeByType = make(map[domain.InterviewType]time.Duration)
}

// Analyze derives advisory recommendations from the current aggregates
// and cache occupancy. Advisories are informational only.
func (c *Collector) Analyze(cache domain.CacheInfo) []domain.Recommendation {
	s := c.Snapshot()
	recommendations := make([]domain.Recommendation, 0, 5)

	if s.CacheHitRate < 0.3 && s.TotalQueries > 10 {
		recommendations = append(recommendations, domain.Recommendation{
			Type:       domain.RecommendationCache,
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("Low cache hit rate: %.1f%%", s.CacheHitRate*100),
			Suggestion: "Consider increasing cache TTL or cache size",
			Impact:     "Could reduce response time by 70-90% for cached queries",
		})
	}
	if s.AvgQueryTime > 3*time.Second {
		recommendations = append(recommendations, domain.Recommendation{
			Type:       domain.RecommendationModel,
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("High average query time: %dms", s.AvgQueryTime.Milliseconds()),
			Suggestion: "Consider using faster models (8B) for query enhancement",
			Impact:     "Could reduce query time by 40-60%",
		})
	}
	if s.TotalCost > 0.10 {
		recommendations = append(recommendations, domain.Recommendation{
			Type:       domain.RecommendationCost,
			Severity:   domain.SeverityInfo,
			Message:    fmt.Sprintf("Total cost: $%.4f", s.TotalCost),
			Suggestion: "Consider implementing more aggressive caching or using smaller models",
			Impact:     "Could reduce costs by 50-70% with caching",
		})
	}
	if cache.Utilization > 0.9 {
		recommendations = append(recommendations, domain.Recommendation{
			Type:       domain.RecommendationCache,
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("Cache near full: %.1f%% utilized", cache.Utilization*100),
			Suggestion: "Consider increasing cache size or reducing TTL",
			Impact:     "Prevent premature eviction of frequently used entries",
		})
	}
	if s.AvgTokensUsed > 2000 {
		recommendations = append(recommendations, domain.Recommendation{
			Type:       domain.RecommendationConfiguration,
			Severity:   domain.SeverityInfo,
			Message:    fmt.Sprintf("High average token usage: %.0f tokens", s.AvgTokensUsed),
			Suggestion: "Consider reducing maxTokens in configuration or using more concise prompts",
			Impact:     "Could reduce costs by 20-30% and improve response time",
		})
	}
	return recommendations
}
