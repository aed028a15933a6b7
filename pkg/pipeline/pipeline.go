// Package pipeline provides the catalog render pipeline for vitrin.
//
// This package implements the complete load → compose → render pipeline used
// by the CLI and the HTTP server. By centralizing this logic, the editor
// preview, the public viewer and the export path render every catalog from
// the same composed document and therefore paint the same header.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: fetch the catalog configuration from a store by id or share slug
//  2. Compose: resolve the template, the header frame and the page plan
//     for one surface (see package render)
//  3. Render: write the composed document as HTML, JSON, PDF or PNG
//
// Rendered artifacts are cached by catalog hash, surface and format. Exports
// can embed the catalog logo as a data URI normalized to the standardized
// logo height, so PDFs never depend on a remote image at print time.
//
// # Usage
//
//	runner := pipeline.NewRunner(store, cache, nil, logger)
//	c, err := runner.Load(ctx, "spring-2025")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, c, pipeline.Options{
//	    Surface: "export",
//	    Formats: []string{"pdf"},
//	})
//	pdf := result.Artifacts["pdf"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vitrinhq/vitrin/pkg/cache"
	"github.com/vitrinhq/vitrin/pkg/logo"
	"github.com/vitrinhq/vitrin/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and server
// =============================================================================

const (
	// DefaultScale is the default device scale for PNG pages and embedded logos.
	DefaultScale = 2.0

	// DefaultLang is the default document language.
	DefaultLang = "tr"
)

// DefaultSurface is the default render surface.
const DefaultSurface = render.SurfaceExport

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatJSON: true,
	FormatPDF:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compose options
	Surface  string `json:"surface,omitempty"`
	Query    string `json:"query,omitempty"`
	Category string `json:"category,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	EmbedLogo bool     `json:"embed_logo,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	Lang      string   `json:"lang,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the composed document for the requested surface.
	Document *render.Document

	// CatalogHash is the content hash of the catalog configuration.
	CatalogHash string

	// Artifacts contains rendered outputs keyed by format. For png it holds
	// the first page; every page is in Pages.
	Artifacts map[string][]byte

	// Pages holds one PNG per document page when png was requested.
	Pages [][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PageCount    int
	ProductPages int
	ComposeTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LogoHit   bool // Whether the embedded logo came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: html, json, pdf, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	surface, err := render.ParseSurface(o.Surface)
	if err != nil {
		return err
	}
	o.Surface = string(surface)

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)

	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || o.Scale > logo.MaxScale {
		return fmt.Errorf("invalid scale: %g (must be in (0, %g])", o.Scale, logo.MaxScale)
	}
	if o.Lang == "" {
		o.Lang = DefaultLang
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SurfaceValue returns the surface as a render.Surface.
func (o *Options) SurfaceValue() render.Surface {
	if o.Surface == "" {
		return DefaultSurface
	}
	return render.Surface(o.Surface)
}

// NeedsBrowser reports whether any requested format is printed by Chrome.
func (o *Options) NeedsBrowser() bool {
	for _, f := range o.Formats {
		if f == FormatPDF || f == FormatPNG {
			return true
		}
	}
	return false
}

// ComposeOptions returns the compose options for this run.
func (o *Options) ComposeOptions() render.ComposeOptions {
	return render.ComposeOptions{Query: o.Query, Category: o.Category}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// PDF and PNG are always printed from the export surface.
func (o *Options) ArtifactKeyOpts(format, template string) cache.ArtifactKeyOpts {
	surface := o.Surface
	if format == FormatPDF || format == FormatPNG {
		surface = string(render.SurfaceExport)
	}
	return cache.ArtifactKeyOpts{
		Surface:   surface,
		Format:    format,
		Template:  template,
		Query:     o.Query,
		Category:  o.Category,
		EmbedLogo: o.EmbedLogo,
		Scale:     o.Scale,
		Lang:      o.Lang,
	}
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
