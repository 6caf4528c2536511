package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rift-cache/internal/identity"
	"github.com/mauv0809/rift-cache/internal/metrics"
	"github.com/mauv0809/rift-cache/internal/profile"
	"github.com/mauv0809/rift-cache/internal/riot"
)

// ProfileService is the part of profile.Service the handlers depend on.
type ProfileService interface {
	Resolve(ctx context.Context, riotID string) (string, error)
	GetProfile(ctx context.Context, riotID string) (*profile.Profile, error)
	SubmitSnapshot(ctx context.Context, puuid string, data json.RawMessage) error
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var _ ProfileService = (*profile.Service)(nil)

// writeError maps err onto a status code and writes it as plain text.
func writeError(w http.ResponseWriter, r *http.Request, m metrics.Metrics, err error) {
	status, kind := classify(err)
	m.IncRequestErrors(kind)
	logger := log.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "kind", kind, "error", err)
	} else {
		logger.Warn("Rejected request", "kind", kind, "error", err)
	}
	http.Error(w, err.Error(), status)
}

func classify(err error) (int, string) {
	var (
		timeoutErr *profile.TimeoutError
		lookupErr  *riot.LookupError
		storeErr   *profile.StoreError
	)
	switch {
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, errBadRequest), errors.Is(err, identity.ErrInvalidRiotID), errors.Is(err, profile.ErrInvalidSnapshot):
		return http.StatusBadRequest, "bad_request"
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout, "timeout"
	case errors.As(err, &lookupErr):
		return http.StatusBadGateway, "upstream"
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, "store"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).Error("Failed to write response", "error", err)
	}
}
