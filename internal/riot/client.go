package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rift-cache/internal/config"
	"github.com/mauv0809/rift-cache/internal/metrics"
	"golang.org/x/time/rate"
)

// maxBodySize caps how much of an upstream response we are willing to buffer.
const maxBodySize = 8 << 20

// APIClient is a Riot API client that implements the RiotClient interface.
type APIClient struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	metrics     metrics.Metrics
	apiKey      string
	AccountURL  string
	PlatformURL string
}

// NewClient creates a new rate limited Riot API client.
func NewClient(cfg config.RiotConfig, m metrics.Metrics) RiotClient {
	return &APIClient{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		metrics:     m,
		apiKey:      cfg.APIKey,
		AccountURL:  cfg.AccountURL,
		PlatformURL: cfg.PlatformURL,
	}
}

// Ensure APIClient implements the RiotClient interface.
var _ RiotClient = (*APIClient)(nil)

// GetAccountByRiotID resolves a game name and tag line to an account.
func (c *APIClient) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (Account, error) {
	endpoint := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.AccountURL, url.PathEscape(gameName), url.PathEscape(tagLine))

	body, err := c.get(ctx, EndpointAccount, endpoint)
	if err != nil {
		return Account{}, err
	}

	var account Account
	if err := json.Unmarshal(body, &account); err != nil {
		return Account{}, &LookupError{Endpoint: EndpointAccount, Err: fmt.Errorf("%w: %v", ErrUnrecognizedPayload, err)}
	}
	if account.PUUID == "" {
		return Account{}, &LookupError{Endpoint: EndpointAccount, Err: fmt.Errorf("%w: missing puuid", ErrUnrecognizedPayload)}
	}
	log.FromContext(ctx).Debug("Resolved account", "gameName", gameName, "tagLine", tagLine, "puuid", account.PUUID)
	return account, nil
}

// GetChallenges fetches the challenge progression document for a player.
func (c *APIClient) GetChallenges(ctx context.Context, puuid string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/lol/challenges/v1/player-data/%s", c.PlatformURL, url.PathEscape(puuid))
	return c.getDocument(ctx, EndpointChallenges, endpoint)
}

// GetMastery fetches every champion mastery entry for a player.
func (c *APIClient) GetMastery(ctx context.Context, puuid string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/lol/champion-mastery/v4/champion-masteries/by-puuid/%s", c.PlatformURL, url.PathEscape(puuid))
	return c.getDocument(ctx, EndpointMastery, endpoint)
}

// getDocument fetches an endpoint whose body is stored without interpretation.
func (c *APIClient) getDocument(ctx context.Context, name, endpoint string) (json.RawMessage, error) {
	body, err := c.get(ctx, name, endpoint)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &LookupError{Endpoint: name, Err: fmt.Errorf("%w: body is not JSON", ErrUnrecognizedPayload)}
	}
	return json.RawMessage(body), nil
}

func (c *APIClient) get(ctx context.Context, name, endpoint string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			// Wait refuses early when the deadline cannot be met, before ctx is done.
			if ctx.Err() == nil {
				err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
			}
			c.record(name, "throttled", 0)
			return nil, &LookupError{Endpoint: name, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &LookupError{Endpoint: name, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "RiftCache/1.0")
	req.Header.Set("X-Riot-Token", c.apiKey)

	logger := log.FromContext(ctx)
	logger.Debug("Requesting Riot API", "endpoint", name, "url", endpoint)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.record(name, "error", elapsed)
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return nil, &LookupError{Endpoint: name, Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()
	c.record(name, statusClass(resp.StatusCode), elapsed)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &LookupError{Endpoint: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if len(body) > maxBodySize {
		logger.Error("Riot API response exceeded size limit", "endpoint", name, "limit_bytes", maxBodySize)
		return nil, &LookupError{Endpoint: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxBodySize)}
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error("Received non-OK HTTP status from Riot API", "endpoint", name, "status", resp.StatusCode, "body", string(body))
		return nil, &LookupError{Endpoint: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)}
	}
	return body, nil
}

func (c *APIClient) record(name, status string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.IncUpstreamRequests(name, status)
	if elapsed > 0 {
		c.metrics.ObserveUpstreamDuration(name, elapsed.Seconds())
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
