package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	pipelineQueriesTotal *prometheus.CounterVec
	pipelineDuration     *prometheus.HistogramVec
	pipelineStageTime    *prometheus.HistogramVec
	cacheLookupsTotal    *prometheus.CounterVec
	retrievedChunks      *prometheus.HistogramVec
	retrievalSourceTotal *prometheus.CounterVec
	llmTokensTotal       *prometheus.CounterVec
	llmCostTotal         *prometheus.CounterVec
	activeSessions       prometheus.Gauge
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twin",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "twin",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twin",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	pipelineQueriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twin",
			Subsystem: "pipeline",
			Name:      "queries_total",
			Help:      "Total pipeline queries by interview type and outcome.",
		},
		[]string{"service", "interview_type", "outcome"},
	)
	pipelineDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "twin",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "End-to-end pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "interview_type"},
	)
	pipelineStageTime := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "twin",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Per-stage pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "stage"},
	)
	cacheLookupsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twin",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total result cache lookups by outcome.",
		},
		[]string{"service", "outcome"},
	)
	retrievedChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "twin",
			Subsystem: "retrieval",
			Name:      "chunks",
			Help:      "Distribution of retrieved chunks per query.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"service"},
	)
	retrievalSourceTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twin",
			Subsystem: "retrieval",
			Name:      "source_total",
			Help:      "Total retrievals by serving path.",
		},
		[]string{"service", "source"},
	)
	llmTokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twin",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Approximate token usage by model.",
		},
		[]string{"service", "model"},
	)
	llmCostTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twin",
			Subsystem: "llm",
			Name:      "cost_dollars_total",
			Help:      "Approximate accumulated LLM spend in dollars.",
		},
		[]string{"service"},
	)
	activeSessions := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twin",
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of live conversation sessions.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		pipelineQueriesTotal,
		pipelineDuration,
		pipelineStageTime,
		cacheLookupsTotal,
		retrievedChunks,
		retrievalSourceTotal,
		llmTokensTotal,
		llmCostTotal,
		activeSessions,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		pipelineQueriesTotal: pipelineQueriesTotal,
		pipelineDuration:     pipelineDuration,
		pipelineStageTime:    pipelineStageTime,
		cacheLookupsTotal:    cacheLookupsTotal,
		retrievedChunks:      retrievedChunks,
		retrievalSourceTotal: retrievalSourceTotal,
		llmTokensTotal:       llmTokensTotal,
		llmCostTotal:         llmCostTotal,
		activeSessions:       activeSessions,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/conversation/sessions/"):
		return "/v1/conversation/sessions/{session_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordPipelineQuery(service, interviewType, outcome string, duration time.Duration, chunkCount int) {
	if interviewType == "" {
		interviewType = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.pipelineQueriesTotal.WithLabelValues(service, interviewType, outcome).Inc()
	m.pipelineDuration.WithLabelValues(service, interviewType).Observe(duration.Seconds())
	m.retrievedChunks.WithLabelValues(service).Observe(float64(chunkCount))
}

func (m *HTTPServerMetrics) RecordStageDuration(service, stage string, duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.pipelineStageTime.WithLabelValues(service, stage).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordCacheLookup(service string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheLookupsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordRetrievalSource(service, source string) {
	if source == "" {
		source = "unknown"
	}
	m.retrievalSourceTotal.WithLabelValues(service, source).Inc()
}

func (m *HTTPServerMetrics) RecordTokenUsage(service, model string, tokens int, cost float64) {
	if tokens <= 0 {
		return
	}
	if model == "" {
		model = "unknown"
	}
	m.llmTokensTotal.WithLabelValues(service, model).Add(float64(tokens))
	if cost > 0 {
		m.llmCostTotal.WithLabelValues(service).Add(cost)
	}
}

func (m *HTTPServerMetrics) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
