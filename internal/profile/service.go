package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rift-cache/internal/config"
	"github.com/mauv0809/rift-cache/internal/identity"
	"github.com/mauv0809/rift-cache/internal/metrics"
	"github.com/mauv0809/rift-cache/internal/riot"
)

// DefaultTTL is how long ranking data is served from the cache.
const DefaultTTL = 10 * time.Minute

// Service is the single read and refresh path for cached profiles, plus the
// write path for client snapshots.
type Service struct {
	store      ProfileStore
	client     riot.RiotClient
	resolver   *identity.Resolver
	metrics    metrics.Metrics
	ttl        time.Duration
	serveStale bool
	now        func() time.Time
}

// NewService wires a Service. A zero TTL falls back to DefaultTTL.
func NewService(store ProfileStore, client riot.RiotClient, m metrics.Metrics, cfg config.CacheConfig) *Service {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:      store,
		client:     client,
		resolver:   identity.NewResolver(client),
		metrics:    m,
		ttl:        ttl,
		serveStale: cfg.ServeStaleOnError,
		now:        time.Now,
	}
}

// Resolve maps a Riot ID to its PUUID.
func (s *Service) Resolve(ctx context.Context, riotID string) (string, error) {
	puuid, err := s.resolver.Resolve(ctx, riotID)
	if err != nil {
		return "", classify("resolve riot id", err)
	}
	return puuid, nil
}

// GetProfile resolves riotID and returns its cached or refreshed profile.
func (s *Service) GetProfile(ctx context.Context, riotID string) (*Profile, error) {
	puuid, err := s.Resolve(ctx, riotID)
	if err != nil {
		return nil, err
	}
	return s.Lookup(ctx, puuid)
}

// Lookup returns the profile for puuid. Missing rows are backfilled, rows
// older than the TTL are refreshed, anything else is served as stored.
func (s *Service) Lookup(ctx context.Context, puuid string) (*Profile, error) {
	logger := log.FromContext(ctx).With("puuid", puuid)

	record, err := s.store.Get(ctx, puuid)
	if err != nil {
		return nil, classify("load profile", err)
	}

	if record == nil {
		logger.Info("Backfilling profile")
		riotData, mastery, err := s.backfill(ctx, puuid)
		if err != nil {
			return nil, err
		}
		s.metrics.IncProfileLookups(metrics.OutcomeBackfill)
		return &Profile{RiotData: riotData, MasteryData: mastery, LCUData: emptySnapshot}, nil
	}

	age := s.now().Sub(record.RiotUpdatedAt)
	if age <= s.ttl {
		logger.Debug("Serving cached profile", "age", age)
		s.metrics.IncProfileLookups(metrics.OutcomeHit)
		return recordProfile(record), nil
	}

	logger.Info("Refreshing stale profile", "age", age)
	riotData, mastery, err := s.backfill(ctx, puuid)
	if err != nil {
		var lookupErr *riot.LookupError
		if s.serveStale && errors.As(err, &lookupErr) {
			logger.Warn("Refresh failed, serving stale profile", "error", err)
			s.metrics.IncProfileLookups(metrics.OutcomeStale)
			return recordProfile(record), nil
		}
		return nil, err
	}
	s.metrics.IncProfileLookups(metrics.OutcomeRefresh)
	return &Profile{RiotData: riotData, MasteryData: mastery, LCUData: snapshotOrEmpty(record.LCUData)}, nil
}

// SubmitSnapshot stores a client snapshot for puuid, backfilling the row first
// if the player has never been looked up. Every call overwrites.
func (s *Service) SubmitSnapshot(ctx context.Context, puuid string, data json.RawMessage) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || !json.Valid(trimmed) {
		return ErrInvalidSnapshot
	}

	record, err := s.store.Get(ctx, puuid)
	if err != nil {
		return classify("load profile", err)
	}
	if record == nil {
		log.FromContext(ctx).Info("Backfilling profile before snapshot write", "puuid", puuid)
		if _, _, err := s.backfill(ctx, puuid); err != nil {
			return err
		}
		s.metrics.IncProfileLookups(metrics.OutcomeBackfill)
	}

	if err := s.store.UpdateLCUData(ctx, puuid, json.RawMessage(trimmed), s.now()); err != nil {
		return classify("write snapshot", err)
	}
	s.metrics.IncSnapshotWrites()
	log.FromContext(ctx).Debug("Stored client snapshot", "puuid", puuid, "bytes", len(trimmed))
	return nil
}

// backfill fetches both ranking payloads and writes them in one upsert.
// Nothing is written unless both fetches succeed.
func (s *Service) backfill(ctx context.Context, puuid string) (json.RawMessage, json.RawMessage, error) {
	riotData, err := s.client.GetChallenges(ctx, puuid)
	if err != nil {
		return nil, nil, classify("fetch challenges", err)
	}
	mastery, err := s.client.GetMastery(ctx, puuid)
	if err != nil {
		return nil, nil, classify("fetch mastery", err)
	}
	if err := s.store.UpsertRiotData(ctx, puuid, riotData, mastery, s.now()); err != nil {
		return nil, nil, classify("store riot data", err)
	}
	return riotData, mastery, nil
}

func recordProfile(r *Record) *Profile {
	return &Profile{
		RiotData:    r.RiotData,
		MasteryData: r.MasteryData,
		LCUData:     snapshotOrEmpty(r.LCUData),
	}
}

func snapshotOrEmpty(data json.RawMessage) json.RawMessage {
	if len(data) == 0 {
		return emptySnapshot
	}
	return data
}

// classify turns deadline failures into a TimeoutError so callers can tell
// them apart from upstream and store failures.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Err: err}
	}
	return err
}
