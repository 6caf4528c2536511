package profile

import (
	"encoding/json"
	"time"
)

// Record is one row of the users table. Payloads are stored as opaque JSON.
type Record struct {
	ID            string
	RiotData      json.RawMessage
	MasteryData   json.RawMessage
	RiotUpdatedAt time.Time
	// LCUData is nil until the first client snapshot is submitted.
	LCUData      json.RawMessage
	LCUUpdatedAt *time.Time
}

// Profile is the uniform shape returned to callers.
type Profile struct {
	RiotData    json.RawMessage `json:"riot_data"`
	MasteryData json.RawMessage `json:"mastery_data"`
	LCUData     json.RawMessage `json:"lcu_data"`
}

// emptySnapshot stands in for a client snapshot that was never submitted.
var emptySnapshot = json.RawMessage(`{}`)
