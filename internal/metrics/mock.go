package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	profileLookups   map[string]int
	upstreamRequests map[string]int
	upstreamTimings  []float64
	snapshotWrites   int
	requestErrors    map[string]int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		profileLookups:   make(map[string]int),
		upstreamRequests: make(map[string]int),
		requestErrors:    make(map[string]int),
	}
}

func (m *Mock) IncProfileLookups(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profileLookups[outcome]++
}

func (m *Mock) IncUpstreamRequests(endpoint, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstreamRequests[endpoint+":"+status]++
}

func (m *Mock) ObserveUpstreamDuration(endpoint string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstreamTimings = append(m.upstreamTimings, seconds)
}

func (m *Mock) IncSnapshotWrites() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotWrites++
}

func (m *Mock) IncRequestErrors(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestErrors[kind]++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ProfileLookups returns how often IncProfileLookups was called with outcome.
func (m *Mock) ProfileLookups(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profileLookups[outcome]
}

// UpstreamRequests returns how often IncUpstreamRequests was called with endpoint and status.
func (m *Mock) UpstreamRequests(endpoint, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upstreamRequests[endpoint+":"+status]
}

// SnapshotWrites returns the number of times IncSnapshotWrites was called.
func (m *Mock) SnapshotWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotWrites
}

// RequestErrors returns how often IncRequestErrors was called with kind.
func (m *Mock) RequestErrors(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestErrors[kind]
}
