package profile_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/rift-cache/internal/config"
	"github.com/mauv0809/rift-cache/internal/identity"
	"github.com/mauv0809/rift-cache/internal/metrics"
	"github.com/mauv0809/rift-cache/internal/profile"
	"github.com/mauv0809/rift-cache/internal/riot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a real store and counts writes.
type countingStore struct {
	profile.ProfileStore
	mu      sync.Mutex
	upserts int
	updates int
}

func (c *countingStore) UpsertRiotData(ctx context.Context, id string, riotData, masteryData json.RawMessage, at time.Time) error {
	c.mu.Lock()
	c.upserts++
	c.mu.Unlock()
	return c.ProfileStore.UpsertRiotData(ctx, id, riotData, masteryData, at)
}

func (c *countingStore) UpdateLCUData(ctx context.Context, id string, lcuData json.RawMessage, at time.Time) error {
	c.mu.Lock()
	c.updates++
	c.mu.Unlock()
	return c.ProfileStore.UpdateLCUData(ctx, id, lcuData, at)
}

func (c *countingStore) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.upserts, c.updates
}

type testEnv struct {
	service *profile.Service
	db      *sql.DB
	store   *countingStore
	client  *riot.MockClient
	metrics *metrics.Mock
	now     time.Time
}

// advance moves the service clock forward by d.
func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func setupService(t *testing.T, cfg config.CacheConfig) *testEnv {
	t.Helper()

	base, db := setupTestDB(t)
	env := &testEnv{
		db:      db,
		store:   &countingStore{ProfileStore: base},
		client:  riot.NewMockClient(),
		metrics: metrics.NewMock(),
		now:     time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	env.client.GetAccountByRiotIDFunc = func(ctx context.Context, gameName, tagLine string) (riot.Account, error) {
		if gameName == "cyan" && tagLine == "pink" {
			return riot.Account{PUUID: "abc-123", GameName: gameName, TagLine: tagLine}, nil
		}
		return riot.Account{}, &riot.LookupError{Endpoint: riot.EndpointAccount, StatusCode: 404, Err: errors.New("not found")}
	}
	version := 0
	var mu sync.Mutex
	env.client.GetChallengesFunc = func(ctx context.Context, puuid string) (json.RawMessage, error) {
		mu.Lock()
		defer mu.Unlock()
		version++
		return json.RawMessage(`{"totalPoints":{"current":` + strconv.Itoa(version) + `}}`), nil
	}
	env.client.GetMasteryFunc = func(ctx context.Context, puuid string) (json.RawMessage, error) {
		return json.RawMessage(`[{"championId":157,"championLevel":7}]`), nil
	}

	env.service = profile.NewService(env.store, env.client, env.metrics, cfg)
	env.service.SetClock(func() time.Time { return env.now })
	return env
}

func TestGetProfile_ColdStartBackfill(t *testing.T) {
	env := setupService(t, config.CacheConfig{TTL: 10 * time.Minute})

	p, err := env.service.GetProfile(context.Background(), "cyan#pink")
	require.NoError(t, err)

	assert.Equal(t, `{"totalPoints":{"current":1}}`, string(p.RiotData))
	assert.Equal(t, `[{"championId":157,"championLevel":7}]`, string(p.MasteryData))
	assert.Equal(t, `{}`, string(p.LCUData))
	assert.Equal(t, []string{"abc-123"}, env.client.GetChallengesCalls)
	assert.Equal(t, []string{"abc-123"}, env.client.GetMasteryCalls)

	upserts, _ := env.store.counts()
	assert.Equal(t, 1, upserts)
	assert.Equal(t, 1, env.metrics.ProfileLookups(metrics.OutcomeBackfill))
}

func TestLookup_WithinTTLServesCache(t *testing.T) {
	env := setupService(t, config.CacheConfig{TTL: 10 * time.Minute})
	ctx := context.Background()

	first, err := env.service.Lookup(ctx, "abc-123")
	require.NoError(t, err)
	env.client.Reset()

	env.advance(5 * time.Minute)
	second, err := env.service.Lookup(ctx, "abc-123")
	require.NoError(t, err)

	assert.Equal(t, 0, env.client.Calls(), "no upstream calls within the TTL")
	assert.Equal(t, string(first.RiotData), string(second.RiotData))
	assert.Equal(t, string(first.MasteryData), string(second.MasteryData))
	assert.Equal(t, `{}`, string(second.LCUData))

	upserts, _ := env.store.counts()
	assert.Equal(t, 1, upserts)
	assert.Equal(t, 1, env.metrics.ProfileLookups(metrics.OutcomeHit))
}

func TestLookup_StaleRowIsRefreshed(t *testing.T) {
	env := setupService(t, config.CacheConfig{TTL: 10 * time.Minute})
	ctx := context.Background()

	_, err := env.service.Lookup(ctx, "abc-123")
	require.NoError(t, err)
	require.NoError(t, env.service.SubmitSnapshot(ctx, "abc-123", json.RawMessage(`{"301103":{"currentLevel":"GOLD"}}`)))
	env.client.Reset()

	env.advance(15 * time.Minute)
	p, err := env.service.Lookup(ctx, "abc-123")
	require.NoError(t, err)

	assert.Equal(t, 2, env.client.Calls(), "one challenges and one mastery fetch")
	assert.Equal(t, `{"totalPoints":{"current":2}}`, string(p.RiotData), "fresh data, not the stored row")
	assert.Equal(t, `{"301103":{"currentLevel":"GOLD"}}`, string(p.LCUData))

	upserts, _ := env.store.counts()
	assert.Equal(t, 2, upserts)
	assert.Equal(t, 1, env.metrics.ProfileLookups(metrics.OutcomeRefresh))

	// The refreshed row is now served from cache.
	env.client.Reset()
	p, err = env.service.Lookup(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, 0, env.client.Calls())
	assert.Equal(t, `{"totalPoints":{"current":2}}`, string(p.RiotData))
}

func TestLookup_RefreshFailure(t *testing.T) {
	upstreamDown := func(ctx context.Context, puuid string) (json.RawMessage, error) {
		return nil, &riot.LookupError{Endpoint: riot.EndpointChallenges, StatusCode: 503, Err: errors.New("unavailable")}
	}

	t.Run("errors by default and keeps the cached row", func(t *testing.T) {
		env := setupService(t, config.CacheConfig{TTL: 10 * time.Minute})
		ctx := context.Background()

		cached, err := env.service.Lookup(ctx, "abc-123")
		require.NoError(t, err)

		env.client.GetChallengesFunc = upstreamDown
		env.advance(15 * time.Minute)
		_, err = env.service.Lookup(ctx, "abc-123")
		var lookupErr *riot.LookupError
		require.ErrorAs(t, err, &lookupErr)
		assert.Equal(t, 503, lookupErr.StatusCode)
		assert.Len(t, env.client.GetMasteryCalls, 1, "mastery is not fetched after challenges fail")

		upserts, _ := env.store.counts()
		assert.Equal(t, 1, upserts, "a failed refresh writes nothing")

		record, err := env.store.Get(ctx, "abc-123")
		require.NoError(t, err)
		assert.Equal(t, string(cached.RiotData), string(record.RiotData))
	})

	t.Run("serves stale when enabled", func(t *testing.T) {
		env := setupService(t, config.CacheConfig{TTL: 10 * time.Minute, ServeStaleOnError: true})
		ctx := context.Background()

		cached, err := env.service.Lookup(ctx, "abc-123")
		require.NoError(t, err)

		env.client.GetChallengesFunc = upstreamDown
		env.advance(15 * time.Minute)
		p, err := env.service.Lookup(ctx, "abc-123")
		require.NoError(t, err)
		assert.Equal(t, string(cached.RiotData), string(p.RiotData))
		assert.Equal(t, 1, env.metrics.ProfileLookups(metrics.OutcomeStale))
	})
}

func TestLookup_BackfillFailureWritesNothing(t *testing.T) {
	env := setupService(t, config.CacheConfig{TTL: 10 * time.Minute, ServeStaleOnError: true})
	env.client.GetMasteryFunc = func(ctx context.Context, puuid string) (json.RawMessage, error) {
		return nil, &riot.LookupError{Endpoint: riot.EndpointMastery, StatusCode: 429, Err: errors.New("rate limited")}
	}

	_, err := env.service.Lookup(context.Background(), "abc-123")
	var lookupErr *riot.LookupError
	require.ErrorAs(t, err, &lookupErr)

	record, err := env.store.Get(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestGetProfile_UnknownHandle(t *testing.T) {
	env := setupService(t, config.CacheConfig{})

	_, err := env.service.GetProfile(context.Background(), "ghost#0000")
	var lookupErr *riot.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, 0, env.client.Calls())

	_, err = env.service.GetProfile(context.Background(), "no-tag")
	assert.ErrorIs(t, err, identity.ErrInvalidRiotID)
}

func TestGetProfile_DeadlineBecomesTimeoutError(t *testing.T) {
	env := setupService(t, config.CacheConfig{})
	env.client.GetChallengesFunc = func(ctx context.Context, puuid string) (json.RawMessage, error) {
		<-ctx.Done()
		return nil, &riot.LookupError{Endpoint: riot.EndpointChallenges, Err: ctx.Err()}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := env.service.GetProfile(ctx, "cyan#pink")
	var timeoutErr *profile.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "fetch challenges", timeoutErr.Op)
}

func TestSubmitSnapshot(t *testing.T) {
	t.Run("backfills a missing row first", func(t *testing.T) {
		env := setupService(t, config.CacheConfig{})
		ctx := context.Background()

		err := env.service.SubmitSnapshot(ctx, "abc-123", json.RawMessage(`{"1":{"currentLevel":"IRON"}}`))
		require.NoError(t, err)

		assert.Equal(t, 2, env.client.Calls())
		upserts, updates := env.store.counts()
		assert.Equal(t, 1, upserts)
		assert.Equal(t, 1, updates)

		p, err := env.service.Lookup(ctx, "abc-123")
		require.NoError(t, err)
		assert.Equal(t, `{"1":{"currentLevel":"IRON"}}`, string(p.LCUData))
		assert.Equal(t, 2, env.client.Calls(), "the backfilled row is fresh")
	})

	t.Run("is idempotent and ignores the TTL", func(t *testing.T) {
		env := setupService(t, config.CacheConfig{})
		ctx := context.Background()
		snapshot := json.RawMessage(`{"2":{"currentLevel":"MASTER"}}`)

		require.NoError(t, env.service.SubmitSnapshot(ctx, "abc-123", snapshot))
		first, err := env.store.Get(ctx, "abc-123")
		require.NoError(t, err)

		env.advance(time.Second)
		require.NoError(t, env.service.SubmitSnapshot(ctx, "abc-123", snapshot))
		second, err := env.store.Get(ctx, "abc-123")
		require.NoError(t, err)

		assert.Equal(t, string(first.LCUData), string(second.LCUData))
		assert.Equal(t, string(first.RiotData), string(second.RiotData))
		assert.True(t, second.LCUUpdatedAt.After(*first.LCUUpdatedAt))

		_, updates := env.store.counts()
		assert.Equal(t, 2, updates)
		assert.Equal(t, 2, env.metrics.SnapshotWrites())
	})

	t.Run("rejects invalid payloads", func(t *testing.T) {
		env := setupService(t, config.CacheConfig{})
		for _, payload := range []string{"", "null", "{broken"} {
			err := env.service.SubmitSnapshot(context.Background(), "abc-123", json.RawMessage(payload))
			assert.ErrorIs(t, err, profile.ErrInvalidSnapshot, payload)
		}
		assert.Equal(t, 0, env.client.Calls())
	})
}

func TestLookup_ConcurrentColdStart(t *testing.T) {
	env := setupService(t, config.CacheConfig{})
	ctx := context.Background()

	const callers = 8

	// Hold every fetch until all callers have read the missing row, so each
	// of them takes the backfill path and writes.
	var arrived sync.WaitGroup
	arrived.Add(callers)
	allArrived := make(chan struct{})
	go func() {
		arrived.Wait()
		close(allArrived)
	}()
	env.client.GetChallengesFunc = func(ctx context.Context, puuid string) (json.RawMessage, error) {
		arrived.Done()
		select {
		case <-allArrived:
		case <-time.After(5 * time.Second):
			return nil, errors.New("not every caller reached the backfill")
		}
		return json.RawMessage(`{"totalPoints":{"current":1}}`), nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := env.service.Lookup(ctx, "abc-123")
			if err == nil && len(p.RiotData) == 0 {
				err = errors.New("empty profile")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	upserts, _ := env.store.counts()
	assert.Equal(t, callers, upserts, "every caller saw the row missing and backfilled")
	assert.Equal(t, callers, env.metrics.ProfileLookups(metrics.OutcomeBackfill))

	var count int
	require.NoError(t, env.db.QueryRow("SELECT COUNT(*) FROM users WHERE id = 'abc-123'").Scan(&count))
	assert.Equal(t, 1, count)
}
