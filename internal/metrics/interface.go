package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncProfileLookups(outcome string)
	IncUpstreamRequests(endpoint, status string)
	ObserveUpstreamDuration(endpoint string, seconds float64)
	IncSnapshotWrites()
	IncRequestErrors(kind string)
	SetStartupTime(duration float64)
}

// Outcomes recorded by IncProfileLookups.
const (
	OutcomeHit      = "hit"
	OutcomeBackfill = "backfill"
	OutcomeRefresh  = "refresh"
	OutcomeStale    = "stale"
)
