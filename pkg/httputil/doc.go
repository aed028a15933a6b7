// Package httputil provides HTTP utilities for fetching remote catalog assets.
//
// # Overview
//
// Catalog logos are stored as URLs. Before a PDF is printed the logo is
// downloaded, normalized to the standard header height and embedded, so a
// slow or flaky image host can't leave a blank header in the export.
//
//   - [Fetcher]: size-limited GET with caching and retries
//   - [Retry]: retry of transient failures with backoff and Retry-After
//
// # Fetching
//
//	f := httputil.NewFetcher(
//	    httputil.WithCache(c, cache.NewDefaultKeyer()),
//	    httputil.WithMaxBytes(4<<20),
//	)
//	data, err := f.Fetch(ctx, "https://cdn.example.com/logo.png")
//
// Only http and https URLs are fetched. Bodies are cached for
// cache.TTLHTTP when a cache is configured.
//
// # Retry
//
// [Retry] wraps operations with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// The wait doubles after each attempt. When an image host answers 429 or
// 503 with a Retry-After header, that wait is used instead, capped at 30
// seconds:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return doRequest()
//	})
package httputil
