package templates

import (
	"github.com/vitrinhq/vitrin/pkg/catalog"
	"github.com/vitrinhq/vitrin/pkg/header"
)

// Spacing used when sizing the header band.
const (
	headerPadding   = 12
	titleLineHeight = 28
)

// Slot is what a template paints in one horizontal header slot.
type Slot struct {
	Anchor  header.Anchor `json:"anchor"`
	Logo    bool          `json:"logo"`
	Title   bool          `json:"title"`
	Stacked bool          `json:"stacked,omitempty"`
}

// Empty reports whether nothing is painted in the slot.
func (s Slot) Empty() bool { return !s.Logo && !s.Title }

// HeaderFrame holds every header directive a template needs. It is a pure
// function of the template and the catalog configuration.
type HeaderFrame struct {
	Template string `json:"template"`

	// BandHeight is the header band height: the template's own height,
	// grown if needed so the logo (and a stacked title) fit.
	BandHeight   int `json:"band_height"`
	FooterHeight int `json:"footer_height"`

	// LogoHeight is the standardized logo height.
	LogoHeight int    `json:"logo_height"`
	LogoURL    string `json:"logo_url,omitempty"`
	Title      string `json:"title"`

	Layout header.Layout `json:"layout"`
	Slots  [3]Slot       `json:"slots"`

	// FooterLogo is the footer anchor of the logo, AnchorNone when the logo
	// is not in the footer.
	FooterLogo header.Anchor `json:"footer_logo"`
}

// Slot returns the slot at anchor a. Unknown anchors return an empty slot.
func (f HeaderFrame) Slot(a header.Anchor) Slot {
	for _, s := range f.Slots {
		if s.Anchor == a {
			return s
		}
	}
	return Slot{Anchor: a}
}

// BuildHeader computes the header frame for a catalog rendered with tpl.
//
// This is the only place that calls header.LogoHeight and header.Resolve,
// each exactly once. A logo position only claims a slot when there is a
// logo to paint; a catalog without a logo URL resolves as LogoNone.
func BuildHeader(tpl Template, c *catalog.Catalog) HeaderFrame {
	logoPos := c.LogoPosition
	if c.LogoURL == "" {
		logoPos = header.LogoNone
	}

	logoHeight := header.LogoHeight(c.LogoSize)
	layout := header.Resolve(logoPos, c.TitlePosition)

	f := HeaderFrame{
		Template:     tpl.ID,
		FooterHeight: tpl.FooterHeight,
		LogoHeight:   logoHeight,
		LogoURL:      c.LogoURL,
		Title:        c.Name,
		Layout:       layout,
		FooterLogo:   header.AnchorNone,
	}
	for i, a := range header.Anchors() {
		f.Slots[i] = Slot{
			Anchor:  a,
			Logo:    layout.LogoIn(a),
			Title:   layout.TitleIn(a),
			Stacked: layout.Stacked && layout.LogoIn(a),
		}
	}
	if layout.Placement == header.PlacementFooter {
		f.FooterLogo = layout.LogoAlignment
		f.FooterHeight = max(f.FooterHeight, logoHeight+headerPadding)
	}

	need := 0
	if layout.IsHeaderLogo {
		need = logoHeight + 2*headerPadding
		if layout.Stacked {
			need += titleLineHeight
		}
	}
	f.BandHeight = max(tpl.HeaderHeight, need)
	return f
}
