// Package cache stores rendered catalog artifacts and normalized logos.
//
// The render pipeline is deterministic: the same catalog configuration,
// surface and format always produce the same bytes. Artifacts are therefore
// keyed by a hash of their inputs and can be shared between the CLI, the
// HTTP server and multiple server replicas.
//
// Three backends are provided:
//
//   - [FileCache]: files under the user cache directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the server
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so that every component agrees on the layout
// of the key space.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default TTLs for the different kinds of cached data.
const (
	// TTLArtifact bounds how long rendered HTML/PDF/PNG/JSON output is kept.
	// Keys already include the catalog hash, so this only limits disk use.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLLogo bounds how long a normalized logo is reused.
	TTLLogo = 30 * 24 * time.Hour

	// TTLHTTP bounds how long a raw downloaded logo is reused before the
	// origin is contacted again.
	TTLHTTP = 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey returns the key for a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// LogoKey returns the key for a normalized logo.
	LogoKey(sourceURL string, opts LogoKeyOpts) string

	// ArtifactKey returns the key for a rendered artifact of a catalog whose
	// configuration hashes to catalogHash.
	ArtifactKey(catalogHash string, opts ArtifactKeyOpts) string
}

// LogoKeyOpts are the inputs that change a normalized logo.
type LogoKeyOpts struct {
	Tier  string  `json:"tier"`
	Scale float64 `json:"scale"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Surface  string `json:"surface"`
	Format   string `json:"format"`
	Template string `json:"template"`
	Query    string `json:"query,omitempty"`
	Category string `json:"category,omitempty"`

	// EmbedLogo, Scale and Lang change the painted bytes but not the frame.
	EmbedLogo bool    `json:"embed_logo,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
	Lang      string  `json:"lang,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// LogoKey generates a key for normalized logo caching.
func (DefaultKeyer) LogoKey(sourceURL string, opts LogoKeyOpts) string {
	return hashKey("logo", sourceURL, opts)
}

// ArtifactKey generates a key for artifact caching.
func (DefaultKeyer) ArtifactKey(catalogHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", catalogHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
