package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rift-cache/internal/metrics"
)

const (
	maxLookupBody   = 4 << 10
	maxSnapshotBody = 16 << 20
)

var (
	// errBadRequest marks request bodies we could not use.
	errBadRequest = errors.New("bad request")
	// errBodyTooLarge marks request bodies over the endpoint's size limit.
	errBodyTooLarge = errors.New("request body too large")
)

type getUserRequest struct {
	RiotID string `json:"riot_id"`
}

type updateLCURequest struct {
	PUUID   string          `json:"puuid"`
	RiotID  string          `json:"riot_id"`
	LCUData json.RawMessage `json:"lcu_data"`
}

// GetUserHandler serves the cached profile for {"riot_id": "name#tag"}.
func GetUserHandler(svc ProfileService, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req getUserRequest
		if err := decodeBody(w, r, maxLookupBody, &req); err != nil {
			writeError(w, r, m, err)
			return
		}
		log.FromContext(r.Context()).Info("Profile requested", "riot_id", req.RiotID)

		p, err := svc.GetProfile(r.Context(), req.RiotID)
		if err != nil {
			writeError(w, r, m, err)
			return
		}
		writeJSON(w, r, p)
	}
}

// UpdateLCUHandler stores a client snapshot. The player is identified by
// puuid, or by riot_id when no puuid is given.
func UpdateLCUHandler(svc ProfileService, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateLCURequest
		if err := decodeBody(w, r, maxSnapshotBody, &req); err != nil {
			writeError(w, r, m, err)
			return
		}

		puuid := req.PUUID
		if puuid == "" {
			if req.RiotID == "" {
				writeError(w, r, m, fmt.Errorf("%w: puuid or riot_id is required", errBadRequest))
				return
			}
			resolved, err := svc.Resolve(r.Context(), req.RiotID)
			if err != nil {
				writeError(w, r, m, err)
				return
			}
			puuid = resolved
		}
		log.FromContext(r.Context()).Info("Client snapshot submitted", "puuid", puuid, "bytes", len(req.LCUData))

		if err := svc.SubmitSnapshot(r.Context(), puuid, req.LCUData); err != nil {
			writeError(w, r, m, err)
			return
		}
		writeJSON(w, r, map[string]string{"status": "ok"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}
