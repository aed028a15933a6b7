package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vitrinhq/vitrin/pkg/cache"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/observability"
	"github.com/vitrinhq/vitrin/pkg/render"
	"github.com/vitrinhq/vitrin/pkg/render/sink"
)

// RenderWithCacheInfo renders every requested format of doc and reports
// whether all of them came from the cache. PDF and PNG are printed from
// printDoc, which must be composed for the export surface.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc, printDoc *render.Document, catalogHash string, opts Options) (map[string][]byte, [][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}
	if printDoc == nil {
		printDoc = doc
	}

	if !cache.Enabled(r.Cache) {
		artifacts, shots, err := r.Render(ctx, doc, printDoc, opts)
		return artifacts, shots, false, err
	}

	keys := make(map[string]string, len(opts.Formats))
	for _, f := range opts.Formats {
		keys[f] = r.Keyer.ArtifactKey(catalogHash, opts.ArtifactKeyOpts(f, doc.Template.ID))
	}

	// Try to get all formats from cache
	if !opts.Refresh {
		if artifacts, shots, ok := r.cachedArtifacts(ctx, keys, opts.Formats); ok {
			return artifacts, shots, true, nil
		}
	}

	artifacts, shots, err := r.Render(ctx, doc, printDoc, opts)
	if err != nil {
		return nil, nil, false, err
	}

	// Cache each format
	for _, f := range opts.Formats {
		data := artifacts[f]
		if f == FormatPNG {
			if data, err = json.Marshal(shots); err != nil {
				continue
			}
		}
		if err := r.Cache.Set(ctx, keys[f], data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, shots, false, nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, keys map[string]string, formats []string) (map[string][]byte, [][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(formats))
	var shots [][]byte
	for _, f := range formats {
		data, hit, err := r.Cache.Get(ctx, keys[f])
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, nil, false
		}
		if f == FormatPNG {
			if json.Unmarshal(data, &shots) != nil || len(shots) == 0 {
				hooks.OnCacheMiss(ctx, "artifact")
				return nil, nil, false
			}
			data = shots[0]
		}
		hooks.OnCacheHit(ctx, "artifact")
		artifacts[f] = data
	}
	return artifacts, shots, true
}

// Render renders every requested format without consulting the cache.
// Formats render concurrently; Chrome-backed formats share one print HTML.
func (r *Runner) Render(ctx context.Context, doc, printDoc *render.Document, opts Options) (map[string][]byte, [][]byte, error) {
	if printDoc == nil {
		printDoc = doc
	}

	var printHTML []byte
	if opts.NeedsBrowser() {
		if r.Browser == nil {
			return nil, nil, verrors.New(verrors.ErrCodeBrowser, "no browser configured for pdf/png output")
		}
		var err error
		if printHTML, err = sink.RenderHTML(printDoc, sink.WithLang(opts.Lang)); err != nil {
			return nil, nil, fmt.Errorf("print html: %w", err)
		}
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
		shots     [][]byte
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, pages, err := r.renderFormat(gctx, doc, printDoc, printHTML, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			defer mu.Unlock()
			artifacts[format] = data
			if pages != nil {
				shots = pages
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return artifacts, shots, nil
}

func (r *Runner) renderFormat(ctx context.Context, doc, printDoc *render.Document, printHTML []byte, format string, opts Options) (data []byte, shots [][]byte, err error) {
	surface := string(doc.Surface)
	if format == FormatPDF || format == FormatPNG {
		surface = string(printDoc.Surface)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, surface, format)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, surface, format, len(data), time.Since(start), err)
	}()

	switch format {
	case FormatHTML:
		data, err = sink.RenderHTML(doc, sink.WithLang(opts.Lang))
	case FormatJSON:
		data, err = sink.RenderJSON(doc, sink.WithJSONIndent())
	case FormatPDF:
		data, err = sink.RenderPDF(ctx, r.Browser, printHTML)
	case FormatPNG:
		shots, err = sink.RenderPNG(ctx, r.Browser, printHTML, len(printDoc.Pages), sink.WithScale(opts.Scale))
		if err == nil {
			data = shots[0]
		}
	default:
		err = verrors.New(verrors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
	return data, shots, err
}
