package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stage metrics
var (
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_preview_validations_total",
			Help: "Total number of project file validations",
		},
		[]string{"status"},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_preview_extractions_total",
			Help: "Total number of project metadata extractions",
		},
		[]string{"status"},
	)

	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "project_preview_extraction_duration_seconds",
			Help:    "Metadata extraction duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ProjectLayers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "project_preview_project_layers",
			Help: "Number of layers in the most recently extracted project",
		},
	)

	InvalidLayers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "project_preview_invalid_layers",
			Help: "Number of broken layers in the most recently extracted project",
		},
	)
)

// Render engine metrics
var (
	ThumbnailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_preview_thumbnails_total",
			Help: "Total number of thumbnail render attempts",
		},
		[]string{"status"},
	)

	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "project_preview_render_duration_seconds",
			Help:    "Map render job duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RenderWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "project_preview_render_workers",
			Help: "Worker count used by the most recent render job",
		},
	)
)
