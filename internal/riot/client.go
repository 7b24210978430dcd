// Package riot implements a rate-limited client for the Riot Games API,
// covering the league, match and champion-mastery endpoints the collector
// needs.
package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	soloQueue      = "RANKED_SOLO_5x5"
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 64 * time.Second
)

// Development keys allow 20 requests per second and 100 per two minutes.
// The second window dominates sustained collection, so pace to it.
const devKeyInterval = 1200 * time.Millisecond

// Client represents a Riot API client with per-host rate limiting.
type Client struct {
	httpClient *http.Client
	apiKey     string
	interval   time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient creates a new Riot API client. When devKey is true the limiter is
// paced to the development key budget.
func NewClient(apiKey string, devKey bool) *Client {
	interval := 50 * time.Millisecond
	if devKey {
		interval = devKeyInterval
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		apiKey:   apiKey,
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// LeagueEntries retrieves one page of ranked solo entries for a tier and
// division on a platform host (e.g. "na1"). Pages start at 1; an empty slice
// means the ladder is exhausted.
func (c *Client) LeagueEntries(ctx context.Context, platform, tier, division string, page int) ([]LeagueEntry, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/league/v4/entries/%s/%s/%s?page=%d",
		platform, soloQueue, tier, division, page)

	var entries []LeagueEntry
	if err := c.doRequest(ctx, platform, url, &entries); err != nil {
		return nil, fmt.Errorf("failed to get league entries %s/%s page %d: %w", tier, division, page, err)
	}

	return entries, nil
}

// ApexLeague retrieves a challenger, grandmaster or master league roster.
// The league parameter is one of "challengerleagues", "grandmasterleagues"
// or "masterleagues".
func (c *Client) ApexLeague(ctx context.Context, platform, league string) (*LeagueList, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/league/v4/%s/by-queue/%s",
		platform, league, soloQueue)

	var list LeagueList
	if err := c.doRequest(ctx, platform, url, &list); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", league, err)
	}

	return &list, nil
}

// MatchIDsByPUUID retrieves a page of a player's solo queue match ids from a
// routing host (e.g. "americas").
func (c *Client) MatchIDsByPUUID(ctx context.Context, routing, puuid string, start, count, queueID int) ([]string, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/by-puuid/%s/ids?queue=%d&start=%d&count=%d",
		routing, puuid, queueID, start, count)

	var ids []string
	if err := c.doRequest(ctx, routing, url, &ids); err != nil {
		return nil, fmt.Errorf("failed to get match ids for %s: %w", puuid, err)
	}

	return ids, nil
}

// Match retrieves one match detail from a routing host.
func (c *Client) Match(ctx context.Context, routing, matchID string) (*Match, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/%s", routing, matchID)

	var match Match
	if err := c.doRequest(ctx, routing, url, &match); err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}

	return &match, nil
}

// ChampionMasteries retrieves all mastery records for a player on a platform
// host.
func (c *Client) ChampionMasteries(ctx context.Context, platform, puuid string) ([]ChampionMastery, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/champion-mastery/v4/champion-masteries/by-puuid/%s",
		platform, puuid)

	var masteries []ChampionMastery
	if err := c.doRequest(ctx, platform, url, &masteries); err != nil {
		return nil, fmt.Errorf("failed to get masteries for %s: %w", puuid, err)
	}

	return masteries, nil
}

// limiter returns the rate limiter for a host, creating it on first use.
// Each platform and routing host has its own request budget.
func (c *Client) limiter(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	lim, ok := c.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(c.interval), 1)
		c.limiters[host] = lim
	}
	return lim
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, host, url string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter(host).Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("X-Riot-Token", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)

			if attempt < maxRetries {
				if err := sleepCtx(ctx, backoff); err != nil {
					return err
				}
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("failed to read response body: %w", readErr)
			}
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return nil

		case http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (HTTP 429)")

			if attempt < maxRetries {
				wait := backoff
				if ra := resp.Header.Get("Retry-After"); ra != "" {
					if secs, err := strconv.Atoi(ra); err == nil {
						wait = time.Duration(secs) * time.Second
					}
				}
				if err := sleepCtx(ctx, wait); err != nil {
					return err
				}
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		case http.StatusNotFound:
			return &NotFoundError{URL: url}

		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			lastErr = &APIError{StatusCode: resp.StatusCode, Message: string(body)}

			if attempt < maxRetries {
				if err := sleepCtx(ctx, backoff); err != nil {
					return err
				}
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		default:
			return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
