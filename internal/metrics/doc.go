// Package metrics defines the Prometheus metrics exported by the
// project processing pipeline: per-stage outcome counters, stage
// duration histograms, and render engine gauges.
package metrics
