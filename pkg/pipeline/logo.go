package pipeline

import (
	"context"
	"strings"

	"github.com/vitrinhq/vitrin/pkg/cache"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/header"
	"github.com/vitrinhq/vitrin/pkg/logo"
	"github.com/vitrinhq/vitrin/pkg/observability"
)

// EmbedLogo downloads the logo at src, scales it to the standardized height
// for tier and returns it as a PNG data URI. The normalized PNG is cached
// per (src, tier, scale). The second result reports a cache hit.
//
// A src that is already a data URI is returned unchanged.
func (r *Runner) EmbedLogo(ctx context.Context, src string, tier header.SizeTier, scale float64) (string, bool, error) {
	if strings.HasPrefix(src, "data:") {
		return src, false, nil
	}
	if scale <= 0 {
		scale = DefaultScale
	}

	hooks := observability.Cache()
	cached := cache.Enabled(r.Cache)
	key := r.Keyer.LogoKey(src, cache.LogoKeyOpts{Tier: string(tier), Scale: scale})
	if cached {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "logo")
			return logo.DataURI(data), true, nil
		}
		hooks.OnCacheMiss(ctx, "logo")
	}

	if r.Fetcher == nil {
		return "", false, verrors.New(verrors.ErrCodeInternal, "no fetcher configured")
	}
	raw, err := r.Fetcher.Fetch(ctx, src)
	if err != nil {
		return "", false, err
	}
	png, err := logo.Normalize(raw, tier, scale)
	if err != nil {
		return "", false, err
	}

	if cached {
		if err := r.Cache.Set(ctx, key, png, cache.TTLLogo); err == nil {
			hooks.OnCacheSet(ctx, "logo", len(png))
		}
	}
	r.Logger.Debug("normalized logo", "url", src, "tier", tier, "bytes", len(png))
	return logo.DataURI(png), false, nil
}
