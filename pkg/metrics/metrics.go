package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ⭐ SSOT: 모든 Prometheus 메트릭은 여기서만 정의
// 파이프라인 stage label은 contracts.Stage 문자열을 사용

var (
	// Pipeline Metrics
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_pipeline_runs_total",
			Help: "Total number of catalog builds by outcome",
		},
		[]string{"outcome"}, // "success", "failed", "dry_run"
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinemood_pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	PipelineRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinemood_pipeline_rows",
			Help: "Row counts observed by the last catalog build",
		},
		[]string{"kind"}, // "raw_ratings", "clean_ratings", "movies", "scored"
	)

	PipelineQualityScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinemood_pipeline_quality_score",
			Help: "Ingest quality score of the last catalog build",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinemood_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinemood_api_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
		[]string{"kind"}, // "recommend", "titles"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
		[]string{"kind"},
	)

	// Scheduler Metrics
	SchedulerJobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_scheduler_job_runs_total",
			Help: "Total number of scheduled job executions by outcome",
		},
		[]string{"job", "outcome"},
	)
)

// RecordStage records the duration of one pipeline stage
func RecordStage(stage string, duration time.Duration) {
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordBuild records the outcome and row counts of a catalog build
func RecordBuild(outcome string, rawRatings, cleanRatings, movies, scored int, qualityScore float64) {
	PipelineRuns.WithLabelValues(outcome).Inc()
	PipelineRows.WithLabelValues("raw_ratings").Set(float64(rawRatings))
	PipelineRows.WithLabelValues("clean_ratings").Set(float64(cleanRatings))
	PipelineRows.WithLabelValues("movies").Set(float64(movies))
	PipelineRows.WithLabelValues("scored").Set(float64(scored))
	PipelineQualityScore.Set(qualityScore)
}

// RecordBuildFailure records a build that did not replace the catalog
func RecordBuildFailure() {
	PipelineRuns.WithLabelValues("failed").Inc()
}

// RecordAPIRequest records one served API request
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCache records a cache lookup result
func RecordCache(kind string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(kind).Inc()
		return
	}
	CacheMisses.WithLabelValues(kind).Inc()
}

// RecordJobRun records a scheduled job execution
func RecordJobRun(job string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	SchedulerJobRuns.WithLabelValues(job, outcome).Inc()
}

// Handler returns the /metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
