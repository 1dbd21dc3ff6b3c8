package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/validationly/signalscan/internal/digest"
	"github.com/validationly/signalscan/internal/normalize"
	"github.com/validationly/signalscan/internal/source"
)

// ErrInvalidRequest marks client mistakes: empty queries and unknown source
// IDs. The HTTP layer maps it to a 400.
var ErrInvalidRequest = errors.New("invalid scan request")

const (
	defaultMaxItems         = 50
	defaultPerSourceTimeout = 15 * time.Second
)

// Request describes one scan.
type Request struct {
	Query    string           `json:"query"`
	Sources  []source.ID      `json:"sources,omitempty"`
	Window   source.TimeRange `json:"time_range,omitempty"`
	MaxItems int              `json:"max_items_per_source,omitempty"`
	Language string           `json:"language,omitempty"`
}

// Result is the settled output of a scan: exactly one signal per requested
// source, in request order.
type Result struct {
	ScanID   string                   `json:"scan_id"`
	Query    string                   `json:"query"`
	Sources  []source.ID              `json:"sources"`
	Signals  []normalize.SourceSignal `json:"signals"`
	Duration time.Duration            `json:"duration"`
}

// Scanner fans a query out to every requested source adapter concurrently
// and waits for all of them to settle.
type Scanner struct {
	registry   source.Registry
	normalizer *normalize.Normalizer
	timeout    time.Duration
}

// ScannerOption customizes a Scanner.
type ScannerOption func(*Scanner)

// WithPerSourceTimeout bounds each adapter call.
func WithPerSourceTimeout(d time.Duration) ScannerOption {
	return func(s *Scanner) { s.timeout = d }
}

func NewScanner(registry source.Registry, normalizer *normalize.Normalizer, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		registry:   registry,
		normalizer: normalizer,
		timeout:    defaultPerSourceTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan validates the request, fetches every source concurrently, and
// normalizes the results. A failing or empty source never fails the scan; it
// yields the fallback signal in its slot. The output order matches the
// request order.
func (s *Scanner) Scan(ctx context.Context, req Request) (Result, error) {
	req, err := s.prepare(req)
	if err != nil {
		return Result{}, err
	}

	scanID := uuid.NewString()
	start := time.Now()
	signals := make([]normalize.SourceSignal, len(req.Sources))

	var wg sync.WaitGroup
	for i, id := range req.Sources {
		wg.Add(1)
		go func(slot int, id source.ID) {
			defer wg.Done()
			signals[slot] = s.fetchOne(ctx, id, req)
		}(i, id)
	}
	wg.Wait()

	digest.Attach(signals)

	elapsed := time.Since(start)
	scansTotal.Inc()
	scanDuration.Observe(elapsed.Seconds())
	log.Info().Str("scan_id", scanID).Str("query", req.Query).
		Int("sources", len(req.Sources)).Dur("duration", elapsed).
		Msg("scan settled")

	return Result{
		ScanID:   scanID,
		Query:    req.Query,
		Sources:  req.Sources,
		Signals:  signals,
		Duration: elapsed,
	}, nil
}

func (s *Scanner) prepare(req Request) (Request, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, fmt.Errorf("%w: empty query", ErrInvalidRequest)
	}
	if len(req.Sources) == 0 {
		req.Sources = source.All()
	}
	for _, id := range req.Sources {
		if !source.Known(id) {
			return req, fmt.Errorf("%w: unknown source %q", ErrInvalidRequest, id)
		}
	}
	if req.MaxItems <= 0 {
		req.MaxItems = defaultMaxItems
	}
	return req, nil
}

// fetchOne runs a single adapter call under its own timeout so a slow source
// cannot cancel its siblings.
func (s *Scanner) fetchOne(ctx context.Context, id source.ID, req Request) normalize.SourceSignal {
	adapter, err := s.registry.Get(id)
	if err != nil {
		sourceFailures.WithLabelValues(string(id)).Inc()
		log.Warn().Err(err).Str("source", string(id)).Msg("source unavailable")
		return normalize.Fallback(id)
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := adapter.Fetch(cctx, req.Query, req.Window, req.MaxItems)
	if err != nil {
		sourceFailures.WithLabelValues(string(id)).Inc()
		log.Warn().Err(err).Str("source", string(id)).Str("query", req.Query).Msg("source fetch failed")
		return normalize.Fallback(id)
	}
	if len(items) == 0 {
		sourceFailures.WithLabelValues(string(id)).Inc()
		log.Debug().Str("source", string(id)).Str("query", req.Query).Msg("source returned nothing")
		return normalize.Fallback(id)
	}
	return s.normalizer.Normalize(id, items, req.Query)
}
