package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riftrewind_pipeline_runs_total",
			Help: "Total fetch pipeline runs",
		},
		[]string{"result"}, // success|failure
	)

	PipelineStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riftrewind_pipeline_step_duration_seconds",
			Help:    "Duration of each backend call in the fetch pipeline",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	HeatmapRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riftrewind_heatmap_renders_total",
			Help: "Total heatmap renders",
		},
		[]string{"mode"},
	)

	SessionsPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "riftrewind_sessions_purged_total",
			Help: "Expired sessions removed by the janitor",
		},
	)
)

func init() {
	prometheus.MustRegister(PipelineRunsTotal)
	prometheus.MustRegister(PipelineStepDuration)
	prometheus.MustRegister(HeatmapRendersTotal)
	prometheus.MustRegister(SessionsPurgedTotal)
}

func Register(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
