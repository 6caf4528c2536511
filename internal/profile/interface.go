package profile

import (
	"context"
	"encoding/json"
	"time"
)

// ProfileStore defines the persistence operations for cached profiles.
type ProfileStore interface {
	// Get returns the record for id, or nil when no row exists.
	Get(ctx context.Context, id string) (*Record, error)
	// UpsertRiotData writes ranking and mastery payloads in one atomic statement.
	// The client snapshot columns are never touched.
	UpsertRiotData(ctx context.Context, id string, riotData, masteryData json.RawMessage, at time.Time) error
	// UpdateLCUData overwrites the client snapshot of an existing row.
	// It returns ErrNotFound when the row does not exist.
	UpdateLCUData(ctx context.Context, id string, lcuData json.RawMessage, at time.Time) error
}
