package dataset

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"resty.dev/v3"

	"github.com/matzehuels/salesmap/pkg/cache"
	"github.com/matzehuels/salesmap/pkg/errors"
	"github.com/matzehuels/salesmap/pkg/observability"
)

// DefaultURL is the published video-game sales dataset.
const DefaultURL = "https://cdn.freecodecamp.org/testable-projects-fcc/data/tree_map/video-game-sales-data.json"

const (
	defaultTimeout    = 10 * time.Second
	defaultRetries    = 3
	defaultRetryWait  = time.Second
	defaultRetryLimit = 5 * time.Second
)

var (
	// ErrNotFound is returned when the dataset URL answers 404.
	ErrNotFound = stderrors.New("dataset not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = stderrors.New("network error")
)

// Fetcher downloads dataset documents over HTTP and caches response bodies.
type Fetcher struct {
	client *resty.Client
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*fetcherConfig)

type fetcherConfig struct {
	timeout time.Duration
	retries int
	wait    time.Duration
	keyer   cache.Keyer
	ttl     time.Duration
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption { return func(c *fetcherConfig) { c.timeout = d } }

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) FetcherOption { return func(c *fetcherConfig) { c.retries = max(n, 0) } }

// WithRetryWait sets the initial wait between retries.
func WithRetryWait(d time.Duration) FetcherOption { return func(c *fetcherConfig) { c.wait = d } }

// WithKeyer overrides the cache keyer.
func WithKeyer(k cache.Keyer) FetcherOption { return func(c *fetcherConfig) { c.keyer = k } }

// WithCacheTTL sets how long fetched bodies stay cached.
func WithCacheTTL(d time.Duration) FetcherOption { return func(c *fetcherConfig) { c.ttl = d } }

// NewFetcher creates a Fetcher. A nil cache disables caching.
func NewFetcher(c cache.Cache, opts ...FetcherOption) *Fetcher {
	cfg := fetcherConfig{
		timeout: defaultTimeout,
		retries: defaultRetries,
		wait:    defaultRetryWait,
		ttl:     cache.TTLDataset,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.keyer == nil {
		cfg.keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}

	client := resty.New().
		SetTimeout(cfg.timeout).
		SetRetryCount(cfg.retries).
		SetRetryWaitTime(cfg.wait).
		SetRetryMaxWaitTime(max(cfg.wait, defaultRetryLimit)).
		SetHeader("Accept", "application/json")

	return &Fetcher{client: client, cache: c, keyer: cfg.keyer, ttl: cfg.ttl}
}

// Fetch returns the body at rawURL. Unless refresh is set, a cached body is
// returned without a request; cached reports whether that happened.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, refresh bool) (body []byte, cached bool, err error) {
	if err := errors.ValidateDatasetURL(rawURL); err != nil {
		return nil, false, err
	}

	key := f.keyer.DatasetKey(rawURL)
	if !refresh {
		if data, hit, err := f.cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "dataset")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "dataset")
	}

	body, err = f.get(ctx, rawURL)
	if err != nil {
		return nil, false, err
	}

	if err := f.cache.Set(ctx, key, body, f.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "dataset", len(body))
	}
	return body, false, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, _ := url.Parse(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, u.Host, u.Path)
	start := time.Now()

	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, u.Host, u.Path, err)
		if stderrors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, ctx.Err())
		}
		var ne net.Error
		if ctx.Err() != nil || stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &ne) && ne.Timeout()) {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", rawURL)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("%w: %v", ErrNetwork, err), "fetch %s", rawURL)
	}
	hooks.OnResponse(ctx, http.MethodGet, u.Host, u.Path, resp.StatusCode(), time.Since(start))

	if err := checkStatus(resp.StatusCode()); err != nil {
		return nil, err
	}
	return []byte(resp.String()), nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "status %d", code)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, ErrNetwork, "status %d", code)
	}
}
