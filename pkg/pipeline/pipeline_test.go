package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vitrinhq/vitrin/pkg/cache"
	"github.com/vitrinhq/vitrin/pkg/catalog"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/header"
	"github.com/vitrinhq/vitrin/pkg/httputil"
	"github.com/vitrinhq/vitrin/pkg/observability"
	"github.com/vitrinhq/vitrin/pkg/render"
	"github.com/vitrinhq/vitrin/pkg/templates"
)

func sample() *catalog.Catalog {
	c := catalog.New("Yaz Koleksiyonu")
	c.Layout = "elegant-cards"
	c.ColumnsPerRow = 2
	c.LogoURL = "https://cdn.example.com/logo.png"
	c.LogoPosition = header.LogoHeaderLeft
	c.LogoSize = header.SizeLarge
	c.TitlePosition = header.TitleLeft
	c.EnableCoverPage = true
	c.EnableCategoryDividers = true
	c.CategoryOrder = []string{"Elbise", "Gömlek"}
	c.Products = []catalog.Product{
		{ID: "p1", Name: "Keten Elbise", Price: 1299.9, Category: "Elbise"},
		{ID: "p2", Name: "Pamuk Gömlek", Price: 749, Category: "Gömlek"},
		{ID: "p3", Name: "Hasır Şapka", Price: 320},
	}
	return c
}

func newTestRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	r := NewRunner(catalog.NewMemoryStore(), c, nil, nil)
	r.Fetcher = httputil.NewFetcher(httputil.WithCache(r.Cache, r.Keyer), httputil.WithRetry(1, 0))
	return r
}

func fileCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return c
}

func logoServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		for y := 0; y < 200; y++ {
			img.Set(x, y, color.NRGBA{R: 124, G: 58, B: 237, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"html", false},
		{"json", false},
		{"pdf", false},
		{"png", false},
		{"svg", true},
		{"PDF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"html", "pdf"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"html", "svg"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Empty options should pass: %v", err)
	}

	if opts.Surface != string(render.SurfaceExport) {
		t.Errorf("Surface = %q, want export", opts.Surface)
	}
	if !slices.Equal(opts.Formats, []string{FormatHTML}) {
		t.Errorf("Formats = %v, want [html]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %g, want %g", opts.Scale, DefaultScale)
	}
	if opts.Lang != DefaultLang {
		t.Errorf("Lang = %q, want %q", opts.Lang, DefaultLang)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"bad surface", Options{Surface: "print"}},
		{"bad format", Options{Formats: []string{"svg"}}},
		{"negative scale", Options{Scale: -1}},
		{"scale too big", Options{Scale: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("ValidateAndSetDefaults() = nil, want error")
			}
		})
	}

	opts := Options{Surface: "print"}
	if err := opts.ValidateAndSetDefaults(); !verrors.Is(err, verrors.ErrCodeInvalidSurface) {
		t.Errorf("bad surface code = %v, want %v", verrors.GetCode(err), verrors.ErrCodeInvalidSurface)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Surface: " Editor ", Formats: []string{"json", "html", "json"}}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	if opts.Surface != "editor" {
		t.Errorf("Surface = %q, want editor", opts.Surface)
	}
	if !slices.Equal(opts.Formats, []string{"json", "html"}) {
		t.Errorf("Formats = %v, want duplicates removed", opts.Formats)
	}

	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Surface != first.Surface || !slices.Equal(opts.Formats, first.Formats) || opts.Scale != first.Scale {
		t.Error("ValidateAndSetDefaults should be idempotent")
	}
}

func TestOptionsNeedsBrowser(t *testing.T) {
	tests := []struct {
		formats []string
		want    bool
	}{
		{[]string{"html"}, false},
		{[]string{"html", "json"}, false},
		{[]string{"pdf"}, true},
		{[]string{"json", "png"}, true},
	}

	for _, tt := range tests {
		opts := Options{Formats: tt.formats}
		if got := opts.NeedsBrowser(); got != tt.want {
			t.Errorf("NeedsBrowser(%v) = %v, want %v", tt.formats, got, tt.want)
		}
	}
}

func TestOptionsArtifactKeyOpts(t *testing.T) {
	opts := Options{Surface: "editor", Query: "keten", EmbedLogo: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	html := opts.ArtifactKeyOpts(FormatHTML, "modern-grid")
	if html.Surface != "editor" || html.Query != "keten" || !html.EmbedLogo || html.Template != "modern-grid" {
		t.Errorf("html key opts = %+v", html)
	}

	// Printed formats always come from the export surface.
	for _, f := range []string{FormatPDF, FormatPNG} {
		if got := opts.ArtifactKeyOpts(f, "modern-grid").Surface; got != "export" {
			t.Errorf("%s key surface = %q, want export", f, got)
		}
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, nil)
	c := sample()

	result, err := r.Execute(ctx, c, Options{Surface: "editor", Formats: []string{"html", "json"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Document.Surface != render.SurfaceEditor {
		t.Errorf("Document.Surface = %q, want editor", result.Document.Surface)
	}
	if result.Stats.PageCount != 7 || result.Stats.ProductPages != 3 {
		t.Errorf("Stats = %+v, want 7 pages with 3 product pages", result.Stats)
	}
	if result.CacheInfo.RenderHit {
		t.Error("NullCache should never hit")
	}
	wantHash, _ := catalog.Hash(c)
	if result.CatalogHash != wantHash {
		t.Errorf("CatalogHash = %q, want %q", result.CatalogHash, wantHash)
	}

	html := string(result.Artifacts["html"])
	if !strings.Contains(html, "surface-editor") || !strings.Contains(html, result.Document.RenderID) {
		t.Error("html artifact should be the editor document")
	}

	var frame struct {
		Surface string       `json:"surface"`
		Frame   render.Frame `json:"frame"`
	}
	if err := json.Unmarshal(result.Artifacts["json"], &frame); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if frame.Surface != "editor" {
		t.Errorf("json surface = %q, want editor", frame.Surface)
	}
	if frame.Frame.Header.LogoHeight != header.LogoHeight(header.SizeLarge) {
		t.Errorf("json logo height = %d, want %d", frame.Frame.Header.LogoHeight, header.LogoHeight(header.SizeLarge))
	}
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, nil)

	if _, err := r.Execute(ctx, nil, Options{}); !verrors.Is(err, verrors.ErrCodeInvalidCatalog) {
		t.Errorf("nil catalog error = %v, want INVALID_CATALOG", err)
	}
	if _, err := r.Execute(ctx, sample(), Options{Formats: []string{"svg"}}); err == nil {
		t.Error("invalid format should fail")
	}

	r.Browser = nil
	_, err := r.Execute(ctx, sample(), Options{Formats: []string{"pdf"}})
	if !verrors.Is(err, verrors.ErrCodeBrowser) {
		t.Errorf("pdf without browser error = %v, want BROWSER_UNAVAILABLE", err)
	}
}

func TestExecuteTemplateFallback(t *testing.T) {
	r := newTestRunner(t, nil)
	c := sample()
	c.Layout = "retro-wave"

	result, err := r.Execute(context.Background(), c, Options{Formats: []string{"json"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Document.TemplateFallback || result.Document.Template.ID != templates.DefaultID {
		t.Errorf("Template = %q (fallback %v), want %q with fallback",
			result.Document.Template.ID, result.Document.TemplateFallback, templates.DefaultID)
	}
}

func TestExecuteCachesArtifacts(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, fileCache(t))
	c := sample()
	opts := Options{Surface: "public", Formats: []string{"html", "json"}}

	first, err := r.Execute(ctx, c, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, c, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit")
	}
	if !bytes.Equal(first.Artifacts["html"], second.Artifacts["html"]) {
		t.Error("cached html should equal the first render")
	}

	// Refresh bypasses the cache.
	refreshed, err := r.Execute(ctx, c, Options{Surface: "public", Formats: []string{"html", "json"}, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if refreshed.CacheInfo.RenderHit {
		t.Error("Refresh should skip the cache")
	}

	// Another surface is another key.
	editor, err := r.Execute(ctx, c, Options{Surface: "editor", Formats: []string{"html", "json"}})
	if err != nil {
		t.Fatalf("editor Execute: %v", err)
	}
	if editor.CacheInfo.RenderHit {
		t.Error("a different surface should miss")
	}

	// A changed catalog is another key.
	c.TitlePosition = header.TitleRight
	changed, err := r.Execute(ctx, c, opts)
	if err != nil {
		t.Fatalf("changed Execute: %v", err)
	}
	if changed.CacheInfo.RenderHit {
		t.Error("a changed catalog should miss")
	}
}

func TestExecutePNGFromCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, fileCache(t))
	r.Browser = nil
	c := sample()

	opts := Options{Formats: []string{"png"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	hash, err := catalog.Hash(c)
	if err != nil {
		t.Fatal(err)
	}
	shots := [][]byte{[]byte("page-1"), []byte("page-2")}
	data, _ := json.Marshal(shots)
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(FormatPNG, c.Layout))
	if err := r.Cache.Set(ctx, key, data, time.Hour); err != nil {
		t.Fatal(err)
	}

	result, err := r.Execute(ctx, c, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.CacheInfo.RenderHit {
		t.Fatal("png should come from cache")
	}
	if len(result.Pages) != 2 || string(result.Artifacts["png"]) != "page-1" {
		t.Errorf("Pages = %q, png = %q", result.Pages, result.Artifacts["png"])
	}
}

func TestExecuteEmbedLogo(t *testing.T) {
	ctx := context.Background()
	var hits atomic.Int32
	srv := logoServer(t, &hits)
	r := newTestRunner(t, fileCache(t))
	c := sample()
	c.LogoURL = srv.URL + "/logo.png"

	result, err := r.Execute(ctx, c, Options{Formats: []string{"html"}, EmbedLogo: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(result.Document.LogoSrc, "data:image/png;base64,") {
		t.Errorf("LogoSrc = %.40q, want a PNG data URI", result.Document.LogoSrc)
	}
	if result.CacheInfo.LogoHit {
		t.Error("first embed should miss")
	}
	if !strings.Contains(string(result.Artifacts["html"]), "data:image/png;base64,") {
		t.Error("html should paint the embedded logo")
	}

	again, err := r.Execute(ctx, c, Options{Formats: []string{"html"}, EmbedLogo: true, Refresh: true})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.LogoHit {
		t.Error("second embed should hit the logo cache")
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("logo downloaded %d times, want 1", n)
	}

	// The embedded logo never changes the frame.
	plain, err := r.Execute(ctx, c, Options{Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Document.Frame().Header != plain.Document.Frame().Header {
		t.Error("embedding the logo changed the header frame")
	}
}

func TestExecuteEmbedLogoFallsBackToURL(t *testing.T) {
	var hits atomic.Int32
	srv := logoServer(t, &hits)
	r := newTestRunner(t, nil)
	c := sample()
	c.LogoURL = srv.URL + "/missing.png"

	result, err := r.Execute(context.Background(), c, Options{Formats: []string{"html"}, EmbedLogo: true})
	if err != nil {
		t.Fatalf("Execute should not fail on a broken logo: %v", err)
	}
	if result.Document.LogoSrc != c.LogoURL {
		t.Errorf("LogoSrc = %q, want the original url", result.Document.LogoSrc)
	}
}

func TestEmbedLogoDataURIPassthrough(t *testing.T) {
	r := newTestRunner(t, nil)
	src := "data:image/png;base64,iVBORw=="
	got, hit, err := r.EmbedLogo(context.Background(), src, header.SizeSmall, 2)
	if err != nil || hit || got != src {
		t.Errorf("EmbedLogo(data uri) = (%q, %v, %v), want passthrough", got, hit, err)
	}
}

type renderRecorder struct {
	observability.NoopPipelineHooks
	mu      sync.Mutex
	started []string
}

func (r *renderRecorder) OnRenderStart(_ context.Context, surface, format string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, surface+"/"+format)
}

func TestExecuteRenderHooks(t *testing.T) {
	rec := &renderRecorder{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	r := newTestRunner(t, nil)
	if _, err := r.Execute(context.Background(), sample(), Options{Surface: "public", Formats: []string{"json", "html"}}); err != nil {
		t.Fatal(err)
	}

	slices.Sort(rec.started)
	want := []string{"public/html", "public/json"}
	if !slices.Equal(rec.started, want) {
		t.Errorf("render starts = %v, want %v", rec.started, want)
	}
}

type cacheRecorder struct {
	mu     sync.Mutex
	events []string
}

func (c *cacheRecorder) record(e string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *cacheRecorder) OnCacheHit(_ context.Context, kind string)        { c.record("hit:" + kind) }
func (c *cacheRecorder) OnCacheMiss(_ context.Context, kind string)       { c.record("miss:" + kind) }
func (c *cacheRecorder) OnCacheSet(_ context.Context, kind string, _ int) { c.record("set:" + kind) }

func TestExecuteCacheHooks(t *testing.T) {
	tests := []struct {
		name     string
		cache    func(t *testing.T) cache.Cache
		wantMiss bool
	}{
		{"disabled", func(*testing.T) cache.Cache { return cache.NewNullCache() }, false},
		{"file", fileCache, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &cacheRecorder{}
			observability.SetCacheHooks(rec)
			defer observability.Reset()

			var hits atomic.Int32
			srv := logoServer(t, &hits)
			r := newTestRunner(t, tt.cache(t))
			c := sample()
			c.LogoURL = srv.URL + "/logo.png"

			if _, err := r.Execute(context.Background(), c, Options{Formats: []string{"html"}, EmbedLogo: true}); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if hits.Load() != 1 {
				t.Errorf("logo downloaded %d times, want 1", hits.Load())
			}

			gotMiss := slices.Contains(rec.events, "miss:artifact") && slices.Contains(rec.events, "miss:logo")
			if gotMiss != tt.wantMiss {
				t.Errorf("cache events = %v, want misses reported = %v", rec.events, tt.wantMiss)
			}
			if !tt.wantMiss && len(rec.events) != 0 {
				t.Errorf("disabled cache reported %v, want nothing", rec.events)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, nil)
	c := sample()
	if err := r.Store.Put(ctx, c); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ref  string
	}{
		{"by id", c.ID},
		{"by slug", c.ShareSlug},
		{"trimmed", "  " + c.ShareSlug + " "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Load(ctx, tt.ref)
			if err != nil {
				t.Fatalf("Load(%q): %v", tt.ref, err)
			}
			if got.ID != c.ID {
				t.Errorf("Load(%q).ID = %q, want %q", tt.ref, got.ID, c.ID)
			}
		})
	}

	if _, err := r.Load(ctx, "kis-koleksiyonu"); !catalog.IsNotFound(err) {
		t.Errorf("Load(missing) error = %v, want not found", err)
	}
	if _, err := r.Load(ctx, ""); !verrors.Is(err, verrors.ErrCodeInvalidInput) {
		t.Errorf("Load(\"\") error = %v, want INVALID_INPUT", err)
	}

	r.Store = nil
	if _, err := r.Load(ctx, c.ID); err == nil {
		t.Error("Load without a store should fail")
	}
}

func TestLoadPublished(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, nil)
	c := sample()
	if err := r.Store.Put(ctx, c); err != nil {
		t.Fatal(err)
	}

	if _, err := r.LoadPublished(ctx, c.ShareSlug); !verrors.Is(err, verrors.ErrCodeNotPublished) {
		t.Errorf("draft error = %v, want NOT_PUBLISHED", err)
	}
	if _, err := r.LoadPublished(ctx, "Bad Slug"); !verrors.Is(err, verrors.ErrCodeInvalidSlug) {
		t.Errorf("bad slug error = %v, want INVALID_SLUG", err)
	}

	c.Published = true
	if err := r.Store.Put(ctx, c); err != nil {
		t.Fatal(err)
	}
	got, err := r.LoadPublished(ctx, c.ShareSlug)
	if err != nil {
		t.Fatalf("LoadPublished: %v", err)
	}
	if got.ID != c.ID {
		t.Errorf("LoadPublished().ID = %q, want %q", got.ID, c.ID)
	}
}

func TestParity(t *testing.T) {
	r := newTestRunner(t, nil)
	report, err := r.Parity(context.Background(), sample(), Options{Query: "gömlek"})
	if err != nil {
		t.Fatalf("Parity: %v", err)
	}
	if !report.Equal || len(report.Frames) != len(render.Surfaces()) {
		t.Errorf("report = %+v, want all surfaces equal", report)
	}
}

func TestClose(t *testing.T) {
	r := newTestRunner(t, fileCache(t))
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
