package render

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vitrinhq/vitrin/pkg/catalog"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/observability"
	"github.com/vitrinhq/vitrin/pkg/pages"
	"github.com/vitrinhq/vitrin/pkg/templates"
)

// ComposeOptions adjust what is composed without changing the header.
type ComposeOptions struct {
	// Query and Category filter the products, see pages.Filter.
	Query    string
	Category string

	// UncategorizedLabel names the divider for products without a category.
	UncategorizedLabel string

	// LogoSrc replaces the catalog logo URL in the painted <img>, typically
	// with a data URI of the normalized logo for exports. It does not
	// change the header frame.
	LogoSrc string
}

// Theme holds the resolved colours a template paints with.
type Theme struct {
	Primary    string `json:"primary"`
	HeaderText string `json:"header_text"`
	Background string `json:"background"`
	Dark       bool   `json:"dark"`
}

// Document is a catalog composed for one surface.
type Document struct {
	// RenderID identifies this composition in logs and response headers.
	RenderID string  `json:"render_id"`
	Surface  Surface `json:"surface"`

	Catalog  *catalog.Catalog   `json:"-"`
	Template templates.Template `json:"template"`

	// TemplateFallback is set when the catalog layout was unknown and the
	// default template was used instead.
	TemplateFallback bool `json:"template_fallback,omitempty"`

	Header  templates.HeaderFrame `json:"header"`
	Pages   []pages.Page          `json:"pages"`
	Theme   Theme                 `json:"theme"`
	LogoSrc string                `json:"logo_src,omitempty"`
}

// Compose builds the document every surface renders from.
//
// The template is looked up from the catalog layout, falling back to the
// default template when the layout is unknown. The header frame comes from
// templates.BuildHeader and is identical for every surface.
func Compose(ctx context.Context, c *catalog.Catalog, surface Surface, opts ComposeOptions) (doc *Document, err error) {
	if !surface.Valid() {
		return nil, verrors.New(verrors.ErrCodeInvalidSurface, "invalid surface %q", surface)
	}
	if c == nil {
		return nil, verrors.New(verrors.ErrCodeInvalidCatalog, "catalog is required")
	}

	tpl, lookupErr := templates.Lookup(c.Layout)
	fallback := lookupErr != nil
	if fallback {
		tpl, _ = templates.Get(templates.DefaultID)
	}

	hooks := observability.Pipeline()
	hooks.OnComposeStart(ctx, string(surface), tpl.ID)
	start := time.Now()
	defer func() {
		n := 0
		if doc != nil {
			n = len(doc.Pages)
		}
		hooks.OnComposeComplete(ctx, string(surface), tpl.ID, n, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logoSrc := opts.LogoSrc
	if logoSrc == "" {
		logoSrc = c.LogoURL
	}

	return &Document{
		RenderID:         uuid.NewString(),
		Surface:          surface,
		Catalog:          c,
		Template:         tpl,
		TemplateFallback: fallback,
		Header:           templates.BuildHeader(tpl, c),
		Pages: pages.Plan(c, pages.Options{
			Query:              opts.Query,
			Category:           opts.Category,
			UncategorizedLabel: opts.UncategorizedLabel,
		}),
		Theme: Theme{
			Primary:    templates.PrimaryColor(c),
			HeaderText: templates.HeaderTextColor(tpl, c),
			Background: templates.BackgroundCSS(c),
			Dark:       tpl.Dark,
		},
		LogoSrc: logoSrc,
	}, nil
}

// PageFrame is the surface-independent summary of one page.
type PageFrame struct {
	Kind     pages.Kind `json:"kind"`
	Category string     `json:"category,omitempty"`
	Number   int        `json:"number,omitempty"`
	Total    int        `json:"total,omitempty"`
	Products []string   `json:"products,omitempty"`
}

// Frame is the part of a document that must not depend on the surface.
type Frame struct {
	Template string                `json:"template"`
	Header   templates.HeaderFrame `json:"header"`
	Theme    Theme                 `json:"theme"`
	Pages    []PageFrame           `json:"pages"`
}

// Frame returns the surface-independent part of d.
func (d *Document) Frame() Frame {
	f := Frame{
		Template: d.Template.ID,
		Header:   d.Header,
		Theme:    d.Theme,
		Pages:    make([]PageFrame, len(d.Pages)),
	}
	for i, p := range d.Pages {
		pf := PageFrame{Kind: p.Kind, Category: p.Category, Number: p.Number, Total: p.Total}
		for _, prod := range p.Products {
			id := prod.ID
			if id == "" {
				id = prod.Name
			}
			pf.Products = append(pf.Products, id)
		}
		f.Pages[i] = pf
	}
	return f
}

// ProductPages returns the number of numbered product pages.
func (d *Document) ProductPages() int {
	n := 0
	for _, p := range d.Pages {
		if p.Kind == pages.KindProducts {
			n++
		}
	}
	return n
}
