package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validationly/signalscan/internal/cache"
)

func fastConfig() ClientConfig {
	return ClientConfig{
		Timeout:     2 * time.Second,
		Retries:     2,
		BackoffBase: time.Millisecond,
		BackoffMax:  2 * time.Millisecond,
		RateLimit:   RateLimit{RequestsPerSecond: 1000, Burst: 100},
	}
}

func TestClientServesFromCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	store := cache.NewMemory(8)
	c := NewClient("test", fastConfig(), store, time.Hour)

	ctx := context.Background()
	first, err := c.GetBytes(ctx, "key", srv.URL, nil)
	require.NoError(t, err)
	second, err := c.GetBytes(ctx, "key", srv.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "second read should hit the cache")
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	c := NewClient("test", fastConfig(), nil, 0)
	body, err := c.GetBytes(context.Background(), "", srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test", fastConfig(), nil, 0)
	_, err := c.GetBytes(context.Background(), "", srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestClientRetriesRateLimitResponses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient("test", fastConfig(), nil, 0)
	body, err := c.GetBytes(context.Background(), "", srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), body)
}

func TestClientSetsUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient("test", fastConfig(), nil, 0)
	_, err := c.GetBytes(context.Background(), "", srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultUserAgent, ua)
}

func TestClientGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":42}`))
	}))
	defer srv.Close()

	c := NewClient("test", fastConfig(), nil, 0)
	var out struct {
		Value int `json:"value"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "", srv.URL, nil, &out))
	assert.Equal(t, 42, out.Value)
}

func TestClientContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.BackoffBase = time.Second
	cfg.BackoffMax = 2 * time.Second
	c := NewClient("test", cfg, nil, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.GetBytes(ctx, "", srv.URL, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
