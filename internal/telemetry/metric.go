package telemetry

import (
	"staffhub/config"
	"staffhub/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct
type Metric struct {
	HttpRequestsTotal       *prometheus.CounterVec
	HttpRequestDuration     *prometheus.HistogramVec
	AssignmentsCreatedTotal *prometheus.CounterVec
	ConflictsDetectedTotal  *prometheus.CounterVec
	SwapDecisionsTotal      *prometheus.CounterVec
	CacheHitTotal           *prometheus.CounterVec
	config                  *config.Configuration
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    config.App.Name + "_" + string(core.MetricHttpRequestDuration),
				Help:    "Request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		AssignmentsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricAssignmentsCreatedTotal),
				Help: "Shift assignments created, by source (single / team)",
			},
			labelNames(core.MetricLabelSource),
		),
		ConflictsDetectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricConflictsDetectedTotal),
				Help: "Conflict checks that found at least one overlap",
			},
			labelNames(core.MetricLabelSource),
		),
		SwapDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricSwapDecisionsTotal),
				Help: "Swap review decisions, by outcome",
			},
			labelNames(core.MetricLabelDecision),
		),
		CacheHitTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricCacheHitTotal),
				Help: "Grouped rota cache lookups, hit vs miss",
			},
			labelNames(core.MetricLabelOutcome),
		),
	}
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
