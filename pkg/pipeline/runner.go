package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vitrinhq/vitrin/pkg/cache"
	"github.com/vitrinhq/vitrin/pkg/catalog"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/httputil"
	"github.com/vitrinhq/vitrin/pkg/render"
	"github.com/vitrinhq/vitrin/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Store   catalog.Store
	Cache   cache.Cache
	Keyer   cache.Keyer
	Browser *sink.Browser
	Fetcher *httputil.Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner reading catalogs from store.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The browser uses the detected Chrome binary; replace Browser to change it.
func NewRunner(store catalog.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:   store,
		Cache:   c,
		Keyer:   keyer,
		Browser: sink.NewBrowser(),
		Fetcher: httputil.NewFetcher(httputil.WithCache(c, keyer)),
		Logger:  logger,
	}
}

// Execute runs the compose → render pipeline for c with caching.
func (r *Runner) Execute(ctx context.Context, c *catalog.Catalog, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if c == nil {
		return nil, verrors.New(verrors.ErrCodeInvalidCatalog, "catalog is required")
	}

	hash, err := catalog.Hash(c)
	if err != nil {
		return nil, fmt.Errorf("hash catalog: %w", err)
	}
	result := &Result{
		CatalogHash: hash,
		Artifacts:   make(map[string][]byte),
	}

	// Stage 1: Compose
	composeStart := time.Now()
	composeOpts := opts.ComposeOptions()
	if opts.EmbedLogo && c.LogoURL != "" {
		src, hit, err := r.EmbedLogo(ctx, c.LogoURL, c.LogoSize, opts.Scale)
		if err != nil {
			opts.Logger.Warn("logo not embedded, painting the url", "url", c.LogoURL, "err", err)
		} else {
			composeOpts.LogoSrc = src
			result.CacheInfo.LogoHit = hit
		}
	}

	doc, err := render.Compose(ctx, c, opts.SurfaceValue(), composeOpts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	printDoc := doc
	if opts.NeedsBrowser() && doc.Surface != render.SurfaceExport {
		if printDoc, err = render.Compose(ctx, c, render.SurfaceExport, composeOpts); err != nil {
			return nil, fmt.Errorf("compose export: %w", err)
		}
	}
	result.Document = doc
	result.Stats.ComposeTime = time.Since(composeStart)
	result.Stats.PageCount = len(doc.Pages)
	result.Stats.ProductPages = doc.ProductPages()

	if doc.TemplateFallback {
		opts.Logger.Warn("unknown layout, using default template",
			"layout", c.Layout,
			"template", doc.Template.ID)
	}
	opts.Logger.Info("composed catalog",
		"catalog", c.ID,
		"surface", doc.Surface,
		"template", doc.Template.ID,
		"pages", len(doc.Pages),
		"duration", result.Stats.ComposeTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, shots, renderHit, err := r.RenderWithCacheInfo(ctx, doc, printDoc, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Pages = shots
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parity composes c for every surface and checks that they agree on the
// template, header frame and page plan.
func (r *Runner) Parity(ctx context.Context, c *catalog.Catalog, opts Options) (*render.ParityReport, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	report, err := render.CheckParity(ctx, c, opts.ComposeOptions())
	if report != nil && !report.Equal {
		opts.Logger.Error("surfaces diverge", "field", report.Divergence)
	} else if err == nil {
		opts.Logger.Debug("surfaces agree", "surfaces", len(report.Frames))
	}
	return report, err
}

// Close releases resources held by the runner (cache and store).
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	return errors.Join(errs...)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
