// Package gleap is the client of the helpdesk dashboard API.
package gleap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"ticketpulse/internal/apperr"
)

const (
	DefaultBaseURL  = "https://dashapi.gleap.io/v3"
	DefaultTimeout  = 20 * time.Second
	DefaultCacheTTL = 30 * time.Second

	maxBodySize = 32 << 20
)

// Config holds what the client needs to reach the upstream API
type Config struct {
	BaseURL   string
	Token     string
	ProjectID string
	TeamID    string

	// Timeout bounds a single upstream call, not a whole dashboard request
	Timeout time.Duration

	// RPS and Burst throttle outbound calls; RPS <= 0 disables throttling
	RPS   float64
	Burst int

	// CacheTTL is how long a response body is reused; 0 disables caching
	CacheTTL time.Duration
}

// Cache stores raw response bodies by request URL
type Cache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Client talks to the helpdesk API. It is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cache   Cache
	flight  singleflight.Group
	now     func() time.Time
}

// NewClient validates cfg and builds a client. cache may be nil.
func NewClient(cfg Config, cache Cache) (*Client, error) {
	cfg.Token = strings.TrimSpace(cfg.Token)
	if cfg.Token == "" {
		return nil, errors.New("gleap: token is required")
	}
	if cfg.ProjectID == "" {
		return nil, errors.New("gleap: project id is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 16, IdleConnTimeout: 90 * time.Second}},
		limiter: rate.NewLimiter(limit, cfg.Burst),
		cache:   cache,
		now:     time.Now,
	}, nil
}

// TeamID is the team the statistics endpoints are scoped to
func (c *Client) TeamID() string {
	return c.cfg.TeamID
}

func (c *Client) endpointURL(path string, query url.Values) string {
	return c.cfg.BaseURL + path + "?" + query.Encode()
}

// getJSON fetches path and decodes the body into dst. Identical URLs are
// shared between concurrent callers and reused for CacheTTL.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	u := c.endpointURL(path, query)

	body, err := c.cached(ctx, u)
	if err != nil {
		return err
	}
	if body == nil {
		// the shared fetch outlives the caller that started it; each caller
		// stops waiting when its own context ends
		ch := c.flight.DoChan(u, func() (any, error) {
			fctx := context.WithoutCancel(ctx)
			b, err := c.fetch(fctx, path, u)
			if err == nil {
				c.store(fctx, u, b)
			}
			return b, err
		})
		select {
		case <-ctx.Done():
			return classify(path, ctx.Err())
		case res := <-ch:
			if res.Err != nil {
				return res.Err
			}
			body = res.Val.([]byte)
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, error) {
	if c.cache == nil || c.cfg.CacheTTL <= 0 {
		return nil, nil
	}
	b, ok, err := c.cache.GetBytes(ctx, cacheKey(key))
	if err != nil || !ok {
		// a cache miss or an unreachable cache both mean going upstream
		return nil, nil
	}
	return b, nil
}

func (c *Client) store(ctx context.Context, key string, body []byte) {
	if c.cache == nil || c.cfg.CacheTTL <= 0 {
		return
	}
	_ = c.cache.SetBytes(ctx, cacheKey(key), body, c.cfg.CacheTTL)
}

func cacheKey(u string) string {
	return "gleap:" + u
}

func (c *Client) fetch(ctx context.Context, path, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classify(path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("project", c.cfg.ProjectID)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, classify(path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, classify(path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &apperr.UpstreamError{Endpoint: path, Status: res.StatusCode, Body: string(body)}
	}
	return body, nil
}

func classify(path string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &apperr.TimeoutError{Op: "GET " + path, Err: err}
	}
	return fmt.Errorf("GET %s: %w", path, err)
}
