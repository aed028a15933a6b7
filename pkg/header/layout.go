package header

import (
	"slices"

	"github.com/vitrinhq/vitrin/pkg/observability"
)

// Layout is the resolved header arrangement for one render pass.
//
// The collision flags describe the request: a flag is set when the logo and
// the requested title claimed the same slot. FinalTitlePosition and
// TitleAnchor describe the result after any override.
type Layout struct {
	// IsHeaderLogo is true when the logo is painted in the header band.
	IsHeaderLogo bool `json:"is_header_logo" bson:"is_header_logo"`

	// Placement is the band the logo is painted in.
	Placement Placement `json:"placement" bson:"placement"`

	// LogoAlignment is the logo's anchor for header and footer placements,
	// AnchorNone otherwise.
	LogoAlignment Anchor `json:"logo_alignment" bson:"logo_alignment"`

	// FinalTitlePosition is the title position templates should use.
	FinalTitlePosition TitlePosition `json:"final_title_position" bson:"final_title_position"`

	// TitleAnchor is the slot the title is painted in, or AnchorNone when the
	// requested title position was not recognized.
	TitleAnchor Anchor `json:"title_anchor" bson:"title_anchor"`

	IsCollisionLeft   bool `json:"is_collision_left" bson:"is_collision_left"`
	IsCollisionCenter bool `json:"is_collision_center" bson:"is_collision_center"`
	IsCollisionRight  bool `json:"is_collision_right" bson:"is_collision_right"`
	IsAnyCollision    bool `json:"is_any_collision" bson:"is_any_collision"`

	// Overridden is true when the title was moved away from its requested slot.
	Overridden bool `json:"overridden" bson:"overridden"`

	// Stacked is true when no free slot existed and the logo and title share
	// one, stacked vertically.
	Stacked bool `json:"stacked,omitempty" bson:"stacked,omitempty"`
}

// LogoIn reports whether the header logo is painted in slot a.
func (l Layout) LogoIn(a Anchor) bool {
	return l.IsHeaderLogo && l.LogoAlignment == a
}

// TitleIn reports whether the title is painted in slot a.
func (l Layout) TitleIn(a Anchor) bool {
	return l.TitleAnchor == a
}

// overridePrecedence is the order in which free anchors are tried when the
// title has to move.
var overridePrecedence = [...]Anchor{AnchorCenter, AnchorRight, AnchorLeft}

// Resolve computes the header layout for a logo and title position.
//
// Both positions are trimmed and lowercased first. An empty title means
// left. Unknown positions never fail: an unknown logo
// position is not a header logo, and an unknown title is passed through
// with TitleAnchor set to AnchorNone. Both emit OnUnknownPosition.
func Resolve(logo LogoPosition, title TitlePosition) Layout {
	hooks := observability.Layout()

	logo = LogoPosition(normalizePosition(string(logo)))
	title = TitlePosition(normalizePosition(string(title)))
	if title == "" {
		title = TitleLeft
	}
	titleAnchor := title.Anchor()
	if titleAnchor == AnchorNone {
		hooks.OnUnknownPosition("title", string(title))
	}
	if logo != "" && !logo.Known() {
		hooks.OnUnknownPosition("logo", string(logo))
	}

	l := Layout{
		Placement:          logo.Placement(),
		LogoAlignment:      AnchorNone,
		FinalTitlePosition: title,
		TitleAnchor:        titleAnchor,
	}
	switch l.Placement {
	case PlacementFooter:
		l.LogoAlignment = logo.Anchor()
		return l
	case PlacementHeader:
	default:
		return l
	}

	l.IsHeaderLogo = true
	l.LogoAlignment = logo.Anchor()
	if titleAnchor != l.LogoAlignment {
		return l
	}

	switch titleAnchor {
	case AnchorLeft:
		l.IsCollisionLeft = true
	case AnchorCenter:
		l.IsCollisionCenter = true
	case AnchorRight:
		l.IsCollisionRight = true
	}
	l.IsAnyCollision = true

	if a, ok := relocate(titleAnchor, l.LogoAlignment); ok {
		l.TitleAnchor = a
		l.FinalTitlePosition = title.WithAnchor(a)
		l.Overridden = true
	} else {
		l.Stacked = true
	}
	hooks.OnCollision(string(logo), string(title), string(l.FinalTitlePosition))
	return l
}

// relocate picks the first anchor in overridePrecedence that is neither the
// requested one nor occupied. When every anchor is taken it returns the
// requested anchor and false.
func relocate(requested Anchor, occupied ...Anchor) (Anchor, bool) {
	for _, a := range overridePrecedence {
		if a == requested || slices.Contains(occupied, a) {
			continue
		}
		return a, true
	}
	return requested, false
}
