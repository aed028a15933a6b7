package header

import "strings"

// Anchor is a horizontal slot in the header band.
type Anchor string

// Header anchors. AnchorNone means "not painted in any header slot".
const (
	AnchorNone   Anchor = "none"
	AnchorLeft   Anchor = "left"
	AnchorCenter Anchor = "center"
	AnchorRight  Anchor = "right"
)

// Anchors returns the three paintable anchors from left to right.
func Anchors() []Anchor {
	return []Anchor{AnchorLeft, AnchorCenter, AnchorRight}
}

// Valid reports whether a is left, center or right.
func (a Anchor) Valid() bool {
	return a == AnchorLeft || a == AnchorCenter || a == AnchorRight
}

// Placement is the band a logo is drawn in.
type Placement string

const (
	PlacementHeader  Placement = "header"
	PlacementFooter  Placement = "footer"
	PlacementNone    Placement = "none"
	PlacementUnknown Placement = "unknown"
)

// LogoPosition is where the catalog owner asked for the logo.
type LogoPosition string

const (
	LogoHeaderLeft   LogoPosition = "header-left"
	LogoHeaderCenter LogoPosition = "header-center"
	LogoHeaderRight  LogoPosition = "header-right"
	LogoFooterLeft   LogoPosition = "footer-left"
	LogoFooterCenter LogoPosition = "footer-center"
	LogoFooterRight  LogoPosition = "footer-right"
	LogoNone         LogoPosition = "none"
)

const (
	headerPrefix = "header"
	footerPrefix = "footer"
)

// LogoPositions returns every recognized logo position.
func LogoPositions() []LogoPosition {
	return []LogoPosition{
		LogoHeaderLeft, LogoHeaderCenter, LogoHeaderRight,
		LogoFooterLeft, LogoFooterCenter, LogoFooterRight,
		LogoNone,
	}
}

// Known reports whether p is one of [LogoPositions].
func (p LogoPosition) Known() bool {
	for _, k := range LogoPositions() {
		if p == k {
			return true
		}
	}
	return false
}

// Placement classifies p. Any value starting with "header" is a header
// placement, even when its anchor suffix is not recognized. The empty
// position counts as none.
func (p LogoPosition) Placement() Placement {
	s := string(p)
	switch {
	case strings.HasPrefix(s, headerPrefix):
		return PlacementHeader
	case strings.HasPrefix(s, footerPrefix):
		return PlacementFooter
	case p == LogoNone || p == "":
		return PlacementNone
	}
	return PlacementUnknown
}

// Anchor returns the horizontal anchor encoded after the first hyphen.
// For header and footer placements a missing or unrecognized suffix yields
// [AnchorLeft]; any other placement has no anchor.
func (p LogoPosition) Anchor() Anchor {
	if pl := p.Placement(); pl != PlacementHeader && pl != PlacementFooter {
		return AnchorNone
	}
	parts := strings.Split(string(p), "-")
	if len(parts) > 1 {
		if a := Anchor(parts[1]); a.Valid() {
			return a
		}
	}
	return AnchorLeft
}

// normalizePosition trims s and lowercases it.
func normalizePosition(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TitlePosition is where the catalog owner asked for the title.
//
// Both the bare vocabulary ("left") and the header-prefixed one
// ("header-left") are accepted. Overrides keep whichever spelling was used.
type TitlePosition string

const (
	TitleLeft   TitlePosition = "left"
	TitleCenter TitlePosition = "center"
	TitleRight  TitlePosition = "right"
)

// TitlePositions returns the recognized title positions in the bare spelling.
func TitlePositions() []TitlePosition {
	return []TitlePosition{TitleLeft, TitleCenter, TitleRight}
}

// Anchor returns the anchor named by p, or [AnchorNone] when p is not a
// recognized position.
func (p TitlePosition) Anchor() Anchor {
	a := Anchor(strings.TrimPrefix(string(p), headerPrefix+"-"))
	if a.Valid() {
		return a
	}
	return AnchorNone
}

// WithAnchor returns the position for a in the same spelling as p.
func (p TitlePosition) WithAnchor(a Anchor) TitlePosition {
	if strings.HasPrefix(string(p), headerPrefix+"-") {
		return TitlePosition(headerPrefix + "-" + string(a))
	}
	return TitlePosition(a)
}
