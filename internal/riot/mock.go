package riot

import (
	"context"
	"encoding/json"
	"sync"
)

// MockClient is a mock implementation of the RiotClient interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetAccountByRiotIDFunc func(ctx context.Context, gameName, tagLine string) (Account, error)
	GetChallengesFunc      func(ctx context.Context, puuid string) (json.RawMessage, error)
	GetMasteryFunc         func(ctx context.Context, puuid string) (json.RawMessage, error)

	// Call records
	GetAccountByRiotIDCalls [][2]string
	GetChallengesCalls      []string
	GetMasteryCalls         []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetAccountByRiotIDCalls = nil
	m.GetChallengesCalls = nil
	m.GetMasteryCalls = nil
}

// Calls returns the total number of data fetches (challenges and mastery).
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetChallengesCalls) + len(m.GetMasteryCalls)
}

func (m *MockClient) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (Account, error) {
	m.mu.Lock()
	m.GetAccountByRiotIDCalls = append(m.GetAccountByRiotIDCalls, [2]string{gameName, tagLine})
	fn := m.GetAccountByRiotIDFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, gameName, tagLine)
	}
	return Account{PUUID: gameName + "-" + tagLine, GameName: gameName, TagLine: tagLine}, nil
}

func (m *MockClient) GetChallenges(ctx context.Context, puuid string) (json.RawMessage, error) {
	m.mu.Lock()
	m.GetChallengesCalls = append(m.GetChallengesCalls, puuid)
	fn := m.GetChallengesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, puuid)
	}
	return json.RawMessage(`{}`), nil
}

func (m *MockClient) GetMastery(ctx context.Context, puuid string) (json.RawMessage, error) {
	m.mu.Lock()
	m.GetMasteryCalls = append(m.GetMasteryCalls, puuid)
	fn := m.GetMasteryFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, puuid)
	}
	return json.RawMessage(`[]`), nil
}
