package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/geco/pkg/buildinfo"
	"github.com/matzehuels/geco/pkg/cache"
	"github.com/matzehuels/geco/pkg/observability"
)

const (
	httpTimeout = 30 * time.Second
	maxBody     = 256 << 20
)

var (
	// ErrNotFound is returned when the backend has no such resource.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client fetches raw resources from a backend with caching and retries.
// It is safe for concurrent use.
type Client struct {
	http    *http.Client
	base    string
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	headers map[string]string

	attempts int
	delay    time.Duration
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default client, e.g. with an httptest client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithCache caches raw responses for ttl.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) { c.cache, c.ttl = cc, ttl }
}

// WithKeyer overrides the cache key derivation.
func WithKeyer(k cache.Keyer) Option { return func(c *Client) { c.keyer = k } }

// WithRetry sets the attempts and the initial backoff of retried requests.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// WithHeader adds a header to every request.
func WithHeader(k, v string) Option { return func(c *Client) { c.headers[k] = v } }

// NewClient returns a client for the backend at base.
func NewClient(base string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: httpTimeout},
		base:    strings.TrimSuffix(base, "/"),
		cache:   cache.NewNullCache(),
		keyer:   cache.NewDefaultKeyer(),
		headers: map[string]string{"User-Agent": buildinfo.UserAgent()},

		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the backend root.
func (c *Client) Base() string { return c.base }

// Cached returns the cached body under namespace/key, or calls fetch with
// retries and caches its result. With refresh the cache is bypassed.
func (c *Client) Cached(ctx context.Context, namespace, key string, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	ck := c.keyer.HTTPKey(namespace, key)
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, ck); ok {
			observability.Cache().OnCacheHit(ctx, namespace)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, namespace)
	}

	var data []byte
	err := cache.Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		data, err = fetch()
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, ck, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, namespace, len(data))
	}
	return data, nil
}

// Get performs a GET request and returns the body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// url joins escaped path segments under the base, with a trailing slash.
func (c *Client) url(segments ...string) string {
	esc := make([]string, len(segments))
	for i, s := range segments {
		esc[i] = url.PathEscape(s)
	}
	return c.base + "/" + strings.Join(esc, "/") + "/"
}
