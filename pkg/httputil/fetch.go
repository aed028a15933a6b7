package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vitrinhq/vitrin/pkg/buildinfo"
	"github.com/vitrinhq/vitrin/pkg/cache"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/observability"
)

// DefaultMaxBytes is the largest body [Fetcher] accepts by default.
const DefaultMaxBytes = 8 << 20

// Fetcher downloads small remote assets such as logos.
type Fetcher struct {
	client   *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	maxBytes int64
	attempts int
	delay    time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithCache enables response caching.
func WithCache(c cache.Cache, k cache.Keyer) FetcherOption {
	return func(f *Fetcher) {
		f.cache = c
		if k != nil {
			f.keyer = k
		}
	}
}

// WithMaxBytes limits the accepted body size.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.attempts = attempts
		f.delay = delay
	}
}

// NewFetcher creates a Fetcher. Without options it uses a 15 second client
// timeout, no cache and 3 attempts starting at 1 second.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		maxBytes: DefaultMaxBytes,
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body of rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := verrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	cached := cache.Enabled(f.cache)
	key := f.keyer.HTTPKey("asset", rawURL)
	if cached {
		if data, ok, err := f.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "http")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var body []byte
	err := Retry(ctx, f.attempts, f.delay, func() error {
		var err error
		body, err = f.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}

	if cached {
		if err := f.cache.Set(ctx, key, body, cache.TTLHTTP); err == nil {
			observability.Cache().OnCacheSet(ctx, "http", len(body))
		}
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, _ := url.Parse(rawURL)
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	start := time.Now()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	resp, err := f.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{
			Err:        fmt.Errorf("status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			After:      retryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", f.maxBytes)
	}
	return data, nil
}
