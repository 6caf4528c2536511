package riot

import (
	"errors"
	"fmt"
)

// Endpoint names used for logging and metrics.
const (
	EndpointAccount    = "account"
	EndpointChallenges = "challenges"
	EndpointMastery    = "mastery"
)

// Account is the subset of the account-v1 response we rely on.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// ErrUnrecognizedPayload is wrapped by a LookupError when the upstream
// answered 200 with a body we cannot use.
var ErrUnrecognizedPayload = errors.New("unrecognized upstream payload")

// ErrResponseTooLarge is wrapped by a LookupError when the upstream body
// exceeds the size we buffer.
var ErrResponseTooLarge = errors.New("upstream response too large")

// LookupError reports a failed call to the Riot API, either because the
// request could not be made, the status was not 200 or the body was not usable.
type LookupError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("riot %s lookup failed with status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("riot %s lookup failed: %v", e.Endpoint, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
