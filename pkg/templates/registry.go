// Package templates is the catalog template registry.
//
// Each template has a fixed header band, a footer band and a rule for how
// many products fit on an A4 page. Templates differ in styling only: every
// one of them builds its header through [BuildHeader], which is the single
// call site of the header resolvers.
package templates

import (
	"slices"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

// Template describes one catalog layout.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Premium     bool   `json:"is_premium"`

	// Dark templates paint light text on a dark page.
	Dark bool `json:"dark"`

	// HeaderHeight and FooterHeight are the band heights in CSS pixels.
	HeaderHeight int `json:"header_height"`
	FooterHeight int `json:"footer_height"`

	// FixedPageSize, when non-zero, is the number of products per page
	// regardless of the column setting.
	FixedPageSize int `json:"fixed_page_size,omitempty"`

	// Rows is the number of product rows per page for column-driven layouts.
	Rows int `json:"rows,omitempty"`
}

var registry = []Template{
	{ID: "modern-grid", Name: "Modern Grid", Description: "Clean grid for visual products", HeaderHeight: 56, FooterHeight: 48, Rows: 3},
	{ID: "compact-list", Name: "Compact List", Description: "Dense listing for large inventories", HeaderHeight: 48, FooterHeight: 32, FixedPageSize: 10},
	{ID: "clean-white", Name: "Clean White", Description: "Minimal white design", HeaderHeight: 64, FooterHeight: 48, Rows: 3},
	{ID: "product-tiles", Name: "Product Tiles", Description: "Compact 3x4 tile view", HeaderHeight: 48, FooterHeight: 32, FixedPageSize: 6},
	{ID: "magazine", Name: "Magazine", Description: "Editorial style with large imagery", Premium: true, HeaderHeight: 120, FooterHeight: 40},
	{ID: "minimalist", Name: "Minimalist", Description: "Whitespace and typography first", Premium: true, HeaderHeight: 60, FooterHeight: 32, FixedPageSize: 4},
	{ID: "bold", Name: "Bold", Description: "High contrast with strong type", Premium: true, HeaderHeight: 80, FooterHeight: 40, Rows: 3},
	{ID: "elegant-cards", Name: "Elegant Cards", Description: "Luxury cards in stone tones", Premium: true, HeaderHeight: 128, FooterHeight: 40, Rows: 3},
	{ID: "classic-catalog", Name: "Classic Catalog", Description: "Professional business catalog", Premium: true, HeaderHeight: 72, FooterHeight: 40, FixedPageSize: 3},
	{ID: "showcase", Name: "Showcase", Description: "Spotlight layout on a dark theme", Premium: true, Dark: true, HeaderHeight: 56, FooterHeight: 40, FixedPageSize: 5},
	{ID: "catalog-pro", Name: "Catalog Pro", Description: "Structured product sheet", Premium: true, HeaderHeight: 56, FooterHeight: 40, FixedPageSize: 4},
	{ID: "retail", Name: "Retail", Description: "Price-forward retail listing", Premium: true, HeaderHeight: 128, FooterHeight: 64, FixedPageSize: 12},
	{ID: "tech-modern", Name: "Tech Modern", Description: "Dark technical spec sheet", Premium: true, Dark: true, HeaderHeight: 64, FooterHeight: 40, Rows: 3},
	{ID: "fashion-lookbook", Name: "Fashion Lookbook", Description: "Hero image with a side rail", Premium: true, HeaderHeight: 96, FooterHeight: 40, FixedPageSize: 5},
	{ID: "industrial", Name: "Industrial", Description: "Technical, heavy borders", Premium: true, HeaderHeight: 96, FooterHeight: 48, FixedPageSize: 8},
	{ID: "luxury", Name: "Luxury", Description: "Gold accents on black", Premium: true, Dark: true, HeaderHeight: 96, FooterHeight: 40, FixedPageSize: 6},
}

// DefaultID is the template used when a catalog names none.
const DefaultID = "modern-grid"

// All returns every registered template in display order.
func All() []Template {
	return slices.Clone(registry)
}

// IDs returns the ids of every registered template.
func IDs() []string {
	ids := make([]string, len(registry))
	for i, t := range registry {
		ids[i] = t.ID
	}
	return ids
}

// Get returns the template with the given id.
func Get(id string) (Template, bool) {
	for _, t := range registry {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Lookup is like Get but returns an INVALID_TEMPLATE error for unknown ids.
// The empty id resolves to the default template.
func Lookup(id string) (Template, error) {
	if id == "" {
		id = DefaultID
	}
	t, ok := Get(id)
	if !ok {
		return Template{}, verrors.New(verrors.ErrCodeInvalidTemplate, "unknown template %q", id)
	}
	return t, nil
}

// Known reports whether id is a registered template.
// It has the signature of catalog.LayoutChecker.
func Known(id string) bool {
	_, ok := Get(id)
	return ok
}

// PageSize returns how many products fit on one page of the template.
func (t Template) PageSize(columns int) int {
	if t.FixedPageSize > 0 {
		return t.FixedPageSize
	}
	if t.ID == "magazine" {
		if columns == 2 {
			return 5
		}
		return 7
	}
	if columns <= 0 {
		columns = 3
	}
	rows := t.Rows
	if rows <= 0 {
		rows = 3
	}
	return columns * rows
}

// PageSize returns the page size for a template id, falling back to
// columns*3 for unknown ids.
func PageSize(layout string, columns int) int {
	t, ok := Get(layout)
	if !ok {
		t = Template{ID: layout, Rows: 3}
	}
	return t.PageSize(columns)
}
