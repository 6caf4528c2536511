// Package identity turns a player handle into the stable id used as cache key.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mauv0809/rift-cache/internal/riot"
)

// Separator splits the display name from the tag in a Riot ID.
const Separator = "#"

// ErrInvalidRiotID is returned for handles that are not exactly "name#tag".
var ErrInvalidRiotID = errors.New("riot id must have the form name#tag")

// Handle is a parsed Riot ID.
type Handle struct {
	GameName string
	TagLine  string
}

func (h Handle) String() string {
	return h.GameName + Separator + h.TagLine
}

// ParseRiotID splits s on its single separator. Both halves must be non-empty.
func ParseRiotID(s string) (Handle, error) {
	if strings.Count(s, Separator) != 1 {
		return Handle{}, fmt.Errorf("%w: %q", ErrInvalidRiotID, s)
	}
	name, tag, _ := strings.Cut(s, Separator)
	if name == "" || tag == "" {
		return Handle{}, fmt.Errorf("%w: %q", ErrInvalidRiotID, s)
	}
	return Handle{GameName: name, TagLine: tag}, nil
}

// Resolver maps handles to PUUIDs through the account API. It keeps no state,
// every call goes upstream.
type Resolver struct {
	client riot.RiotClient
}

// NewResolver creates a Resolver backed by client.
func NewResolver(client riot.RiotClient) *Resolver {
	return &Resolver{client: client}
}

// Resolve returns the PUUID for riotID.
func (r *Resolver) Resolve(ctx context.Context, riotID string) (string, error) {
	handle, err := ParseRiotID(riotID)
	if err != nil {
		return "", err
	}
	account, err := r.client.GetAccountByRiotID(ctx, handle.GameName, handle.TagLine)
	if err != nil {
		return "", err
	}
	return account.PUUID, nil
}
