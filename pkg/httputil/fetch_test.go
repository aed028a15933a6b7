package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vitrinhq/vitrin/pkg/cache"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

func TestFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "vitrin/") {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Write([]byte("logo-bytes"))
	}))
	defer srv.Close()

	f := NewFetcher()
	data, err := f.Fetch(context.Background(), srv.URL+"/logo.png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "logo-bytes" {
		t.Errorf("Fetch = %q, want logo-bytes", data)
	}
}

func TestFetcherRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewFetcher(WithRetry(3, time.Millisecond))
	data, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "ok" || calls.Load() != 3 {
		t.Errorf("Fetch = %q after %d calls, want ok after 3", data, calls.Load())
	}
}

func TestFetcherDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(WithRetry(3, time.Millisecond))
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Fetch should fail on 404")
	}
	if !verrors.Is(err, verrors.ErrCodeNetwork) {
		t.Errorf("error code = %v, want %v", verrors.GetCode(err), verrors.ErrCodeNetwork)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetcherMaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	f := NewFetcher(WithMaxBytes(16))
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Fetch should reject oversized body")
	}
}

func TestFetcherRejectsUnsafeURL(t *testing.T) {
	f := NewFetcher()
	for _, u := range []string{"", "file:///etc/passwd", "ftp://example.com/logo.png"} {
		_, err := f.Fetch(context.Background(), u)
		if !verrors.Is(err, verrors.ErrCodeInvalidURL) {
			t.Errorf("Fetch(%q) error = %v, want INVALID_URL", u, err)
		}
	}
}

func TestFetcherUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("cached"))
	}))
	defer srv.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(WithCache(c, nil))

	for i := 0; i < 3; i++ {
		data, err := f.Fetch(context.Background(), srv.URL)
		if err != nil || string(data) != "cached" {
			t.Fatalf("Fetch #%d = (%q, %v)", i, data, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("server hit %d times, want 1", calls.Load())
	}
}

func TestFetcherRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("logo"))
	}))
	defer srv.Close()

	f := NewFetcher(WithRetry(2, time.Millisecond))
	data, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "logo" || calls.Load() != 2 {
		t.Errorf("Fetch = %q after %d calls, want logo after 2", data, calls.Load())
	}
}
