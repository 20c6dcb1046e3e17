// Package codeforces is the HTTP client for the public Codeforces API.
// Requests go through a rate limiter and a circuit breaker, retry with
// exponential backoff, and read through the cache so repeated lookups for
// the same handle do not hammer the upstream.
package codeforces

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/okian/cpcoach/internal/adapters/cache"
	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/pkg/logger"
	"github.com/okian/cpcoach/pkg/metrics"
)

const (
	defaultBaseURL     = "https://codeforces.com/api"
	defaultTimeout     = 30 * time.Second
	defaultRetries     = 3
	defaultBackoffBase = time.Second

	// Upstream allows roughly one request per second per client.
	defaultRateLimit = rate.Limit(1)
	defaultBurst     = 2

	userTTL     = 6 * time.Hour
	problemsTTL = 12 * time.Hour
)

// Client talks to the Codeforces REST API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[[]byte]
	cache       cache.Cache
	retries     int
	backoffBase time.Duration
}

// NewClient builds a client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		limiter:     rate.NewLimiter(defaultRateLimit, defaultBurst),
		retries:     defaultRetries,
		backoffBase: defaultBackoffBase,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "codeforces",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return c
}

// UserInfo fetches a user's profile.
func (c *Client) UserInfo(ctx context.Context, handle string) (UserInfo, error) {
	body, err := c.cachedGet(ctx, "user:"+strings.ToLower(handle), userTTL,
		"/user.info", url.Values{"handles": {handle}})
	if err != nil {
		return UserInfo{}, err
	}

	var resp userInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return UserInfo{}, fmt.Errorf("decode user.info: %w", err)
	}
	if err := resp.check(); err != nil {
		return UserInfo{}, err
	}
	if len(resp.Result) == 0 {
		return UserInfo{}, ErrHandleNotFound
	}
	return resp.Result[0].toDomain(), nil
}

// UserSubmissions fetches a user's most recent submissions, newest first.
// count bounds the history depth; zero means the upstream default.
func (c *Client) UserSubmissions(ctx context.Context, handle string, count int) ([]model.Submission, error) {
	params := url.Values{"handle": {handle}, "from": {"1"}}
	key := "subs:" + strings.ToLower(handle)
	if count > 0 {
		params.Set("count", fmt.Sprintf("%d", count))
		key = fmt.Sprintf("%s:%d", key, count)
	}

	body, err := c.cachedGet(ctx, key, userTTL, "/user.status", params)
	if err != nil {
		return nil, err
	}

	var resp userStatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode user.status: %w", err)
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	subs := make([]model.Submission, 0, len(resp.Result))
	for _, s := range resp.Result {
		subs = append(subs, s.toDomain())
	}
	return subs, nil
}

// Problems fetches the full problemset filtered to the recommendable set:
// rated within the supported range, with a contest and an index.
func (c *Client) Problems(ctx context.Context) ([]model.Problem, error) {
	body, err := c.cachedGet(ctx, "problems", problemsTTL, "/problemset.problems", nil)
	if err != nil {
		return nil, err
	}

	var resp problemsetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode problemset.problems: %w", err)
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	problems := make([]model.Problem, 0, len(resp.Result.Problems))
	for _, wp := range resp.Result.Problems {
		p, err := wp.toDomain()
		if err != nil {
			continue
		}
		if p.Rating < model.MinRating || p.Rating > model.MaxRating {
			continue
		}
		problems = append(problems, p)
	}
	return problems, nil
}

func (e envelope) check() error {
	if e.Status == "OK" {
		return nil
	}
	if strings.Contains(e.Comment, "not found") {
		return fmt.Errorf("%w: %s", ErrHandleNotFound, e.Comment)
	}
	return fmt.Errorf("%w: %s", ErrUpstream, e.Comment)
}

// cachedGet reads through the cache, falling back to the live API.
func (c *Client) cachedGet(ctx context.Context, key string, ttl time.Duration, path string, params url.Values) ([]byte, error) {
	if c.cache != nil {
		if body, err := c.cache.Get(ctx, key); err == nil {
			return body, nil
		}
	}

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, ttl); err != nil {
			logger.Get().Warn(ctx, "cache write failed",
				logger.String("key", key), logger.Error(err))
		}
	}
	return body, nil
}

// get performs one rate-limited, breaker-guarded request with retries.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			metrics.RecordUpstreamRetry()
			backoff := c.backoffBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.breaker.Execute(func() ([]byte, error) {
			return c.do(ctx, endpoint)
		})
		if err == nil {
			metrics.RecordUpstreamRequest("ok")
			return body, nil
		}
		lastErr = err
		metrics.RecordUpstreamRequest("error")

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, context.Canceled) {
			break
		}
		logger.Get().Warn(ctx, "codeforces request failed",
			logger.String("path", path),
			logger.Int("attempt", attempt+1),
			logger.Error(err))
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *Client) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// FAILED responses come back with non-2xx codes but still carry the
	// JSON envelope; surface the body so check() can classify them.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	return body, nil
}
