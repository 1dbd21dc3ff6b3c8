package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/validationly/signalscan/internal/cache"
)

const defaultUserAgent = "signalscan/1.0"

// ClientConfig tunes the outbound HTTP behavior of one adapter.
type ClientConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Retries     int           `yaml:"retries"`
	BackoffBase time.Duration `yaml:"backoff_base"`
	BackoffMax  time.Duration `yaml:"backoff_max"`
	RateLimit   RateLimit     `yaml:"rate_limit"`
	UserAgent   string        `yaml:"user_agent"`
}

// DefaultClientConfig returns conservative settings suitable for keyless
// public APIs.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:     10 * time.Second,
		Retries:     2,
		BackoffBase: 500 * time.Millisecond,
		BackoffMax:  10 * time.Second,
		RateLimit:   RateLimit{RequestsPerSecond: 1, Burst: 3},
		UserAgent:   defaultUserAgent,
	}
}

// Client wraps http.Client with per-source rate limiting, a circuit breaker,
// bounded retry with exponential backoff, and a read-through response cache.
// All source adapters share this transport path.
type Client struct {
	name      string
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
	store     cache.Cache
	ttl       time.Duration
	cfg       ClientConfig
	userAgent string
}

// NewClient builds a transport for the named source. store may be nil to
// disable caching; ttl is the per-source freshness window.
func NewClient(name string, cfg ClientConfig, store cache.Cache, ttl time.Duration) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultClientConfig().Timeout
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultClientConfig().BackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = DefaultClientConfig().BackoffMax
	}
	if cfg.RateLimit.RequestsPerSecond <= 0 {
		cfg.RateLimit = DefaultClientConfig().RateLimit
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("source", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}

	return &Client{
		name:      name,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), max(cfg.RateLimit.Burst, 1)),
		breaker:   gobreaker.NewCircuitBreaker(settings),
		store:     store,
		ttl:       ttl,
		cfg:       cfg,
		userAgent: ua,
	}
}

// permanentError marks failures that retrying cannot fix (4xx responses).
type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

// GetBytes fetches url, serving from cache when fresh. header may be nil.
func (c *Client) GetBytes(ctx context.Context, cacheKey, url string, header http.Header) ([]byte, error) {
	if c.store != nil && cacheKey != "" {
		if body, ok, err := c.store.Get(ctx, cacheKey); err != nil {
			log.Warn().Err(err).Str("source", c.name).Msg("cache read failed")
		} else if ok {
			return body, nil
		}
	}

	var body []byte
	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doGet(ctx, url, header)
		})
		if err == nil {
			body = result.([]byte)
			lastErr = nil
			break
		}
		lastErr = err
		var perm permanentError
		if errors.As(err, &perm) {
			return nil, perm.err
		}
		log.Debug().Err(err).Str("source", c.name).Int("attempt", attempt+1).Msg("fetch attempt failed")
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%s: %w", c.name, lastErr)
	}

	if c.store != nil && cacheKey != "" {
		if err := c.store.Set(ctx, cacheKey, body, c.ttl); err != nil {
			log.Warn().Err(err).Str("source", c.name).Msg("cache write failed")
		}
	}
	return body, nil
}

// GetJSON fetches url and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, cacheKey, url string, header http.Header, out any) error {
	body, err := c.GetBytes(ctx, cacheKey, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, permanentError{err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, permanentError{fmt.Errorf("upstream status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.cfg.BackoffBase << (attempt - 1)
	if d > c.cfg.BackoffMax {
		d = c.cfg.BackoffMax
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
