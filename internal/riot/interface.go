package riot

import (
	"context"
	"encoding/json"
)

// RiotClient defines the interface for interacting with the Riot API.
// This allows for mock implementations to be used in tests.
type RiotClient interface {
	GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (Account, error)
	GetChallenges(ctx context.Context, puuid string) (json.RawMessage, error)
	GetMastery(ctx context.Context, puuid string) (json.RawMessage, error)
}
