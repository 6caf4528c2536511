package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ProfileLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rift_profile_lookups_total",
			Help: "Profile lookups by cache outcome (hit, backfill, refresh, stale).",
		}, []string{"outcome"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rift_upstream_requests_total",
			Help: "Requests sent to the Riot API by endpoint and status.",
		}, []string{"endpoint", "status"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rift_upstream_request_duration_seconds",
			Help:    "Latency of Riot API requests.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		SnapshotWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rift_snapshot_writes_total",
			Help: "The total number of client snapshots stored.",
		}),
		RequestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rift_request_errors_total",
			Help: "Failed API requests by error kind.",
		}, []string{"kind"}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rift_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ProfileLookups,
		s.UpstreamRequests,
		s.UpstreamDuration,
		s.SnapshotWrites,
		s.RequestErrors,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncProfileLookups(outcome string) {
	s.ProfileLookups.WithLabelValues(outcome).Inc()
}

func (s *Service) IncUpstreamRequests(endpoint, status string) {
	s.UpstreamRequests.WithLabelValues(endpoint, status).Inc()
}

func (s *Service) ObserveUpstreamDuration(endpoint string, seconds float64) {
	s.UpstreamDuration.WithLabelValues(endpoint).Observe(seconds)
}

func (s *Service) IncSnapshotWrites() {
	s.SnapshotWrites.Inc()
}

func (s *Service) IncRequestErrors(kind string) {
	s.RequestErrors.WithLabelValues(kind).Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
