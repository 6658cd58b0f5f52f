package usecase

import (
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

// MonitoringUseCase exposes accumulated performance state and the
// advisory analysis over it. Clearing the cache leaves stats intact so
// hit-rate history survives an operator flush.
type MonitoringUseCase struct {
	stats ports.StatsCollector
	cache ports.ResultCache
}

func NewMonitoringUseCase(stats ports.StatsCollector, cache ports.ResultCache) *MonitoringUseCase {
	return &MonitoringUseCase{stats: stats, cache: cache}
}

func (uc *MonitoringUseCase) Stats() domain.PerformanceStats {
	return uc.stats.Snapshot()
}

func (uc *MonitoringUseCase) CacheInfo() domain.CacheInfo {
	return uc.cache.Info()
}

func (uc *MonitoringUseCase) Analyze() []domain.Recommendation {
	return uc.stats.Analyze(uc.cache.Info())
}

func (uc *MonitoringUseCase) ClearCache() {
	uc.cache.Clear()
}
