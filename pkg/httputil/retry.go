package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// maxRetryDelay caps both the doubling backoff and a host's Retry-After.
// A logo host asking for longer than this is treated as down.
const maxRetryDelay = 30 * time.Second

// RetryableError marks a transient download failure: a network error, a 5xx
// or a 429 from the image host. After is the wait the host asked for via
// Retry-After; when set it replaces the backoff delay for the next attempt.
type RetryableError struct {
	Err        error
	StatusCode int
	After      time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times. Only errors wrapping a
// [RetryableError] are retried; anything else is returned at once.
//
// The wait starts at delay and doubles after each attempt unless the error
// carries a Retry-After, and never exceeds 30 seconds. Retry returns the
// last error, or ctx.Err() when ctx ends while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		if re.After > 0 {
			wait = re.After
		}
		timer := time.NewTimer(min(wait, maxRetryDelay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
	return err
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
// It returns 0 when the header is absent, malformed or already past.
func retryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}
