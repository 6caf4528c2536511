package profile

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MockStore is a mock implementation of the ProfileStore interface for testing.
// Without stubbed funcs it behaves like an in-memory table.
// It is safe for concurrent use.
type MockStore struct {
	mu      sync.Mutex
	records map[string]Record

	// Spies for method calls
	GetFunc            func(ctx context.Context, id string) (*Record, error)
	UpsertRiotDataFunc func(ctx context.Context, id string, riotData, masteryData json.RawMessage, at time.Time) error
	UpdateLCUDataFunc  func(ctx context.Context, id string, lcuData json.RawMessage, at time.Time) error

	// Call records
	GetCalls            []string
	UpsertRiotDataCalls []string
	UpdateLCUDataCalls  []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{records: make(map[string]Record)}
}

// Put seeds a record.
func (m *MockStore) Put(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = nil
	m.UpsertRiotDataCalls = nil
	m.UpdateLCUDataCalls = nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, id)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MockStore) UpsertRiotData(ctx context.Context, id string, riotData, masteryData json.RawMessage, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertRiotDataCalls = append(m.UpsertRiotDataCalls, id)
	if m.UpsertRiotDataFunc != nil {
		return m.UpsertRiotDataFunc(ctx, id, riotData, masteryData, at)
	}
	r := m.records[id]
	r.ID = id
	r.RiotData = riotData
	r.MasteryData = masteryData
	r.RiotUpdatedAt = at
	m.records[id] = r
	return nil
}

func (m *MockStore) UpdateLCUData(ctx context.Context, id string, lcuData json.RawMessage, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateLCUDataCalls = append(m.UpdateLCUDataCalls, id)
	if m.UpdateLCUDataFunc != nil {
		return m.UpdateLCUDataFunc(ctx, id, lcuData, at)
	}
	r, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	r.LCUData = lcuData
	r.LCUUpdatedAt = &at
	m.records[id] = r
	return nil
}
