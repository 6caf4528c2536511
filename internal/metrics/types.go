package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	ProfileLookups     *prometheus.CounterVec
	UpstreamRequests   *prometheus.CounterVec
	UpstreamDuration   *prometheus.HistogramVec
	SnapshotWrites     prometheus.Counter
	RequestErrors      *prometheus.CounterVec
	StartupTimeSeconds prometheus.Gauge
}
