package metrics

// InitializeMetrics pre-populates every expected label combination so
// that all metrics are exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "failure"} {
		ValidationsTotal.WithLabelValues(status)
		ExtractionsTotal.WithLabelValues(status)
		ThumbnailsTotal.WithLabelValues(status)
	}
}
