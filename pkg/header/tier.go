package header

import (
	"strings"

	"github.com/vitrinhq/vitrin/pkg/observability"
)

// SizeTier is a named logo size chosen by the catalog owner.
type SizeTier string

// Supported size tiers, smallest first.
const (
	SizeSmall  SizeTier = "small"
	SizeMedium SizeTier = "medium"
	SizeLarge  SizeTier = "large"
	SizeXLarge SizeTier = "xlarge"
)

// FallbackHeight is the logo height used for an unrecognized tier.
// It equals the medium height.
const FallbackHeight = 36

var tierHeights = map[SizeTier]int{
	SizeSmall:  24,
	SizeMedium: FallbackHeight,
	SizeLarge:  48,
	SizeXLarge: 60,
}

// Tiers returns all size tiers ordered from smallest to largest.
func Tiers() []SizeTier {
	return []SizeTier{SizeSmall, SizeMedium, SizeLarge, SizeXLarge}
}

// Valid reports whether t is one of the supported tiers.
func (t SizeTier) Valid() bool {
	_, ok := tierHeights[t]
	return ok
}

// String returns the tier name.
func (t SizeTier) String() string { return string(t) }

// ParseSizeTier normalizes user input into a SizeTier. It trims whitespace,
// ignores case and accepts "extra-large" and "xl" for [SizeXLarge]. The
// empty string parses to [SizeMedium].
func ParseSizeTier(s string) (SizeTier, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return SizeMedium, true
	case "extra-large", "extra_large", "xl":
		return SizeXLarge, true
	case "sm":
		return SizeSmall, true
	case "md":
		return SizeMedium, true
	case "lg":
		return SizeLarge, true
	}
	t := SizeTier(s)
	return t, t.Valid()
}

// LogoHeight returns the standardized logo height in pixels for tier.
//
// The result is always positive and never decreases from small to xlarge.
// The tier is normalized with [ParseSizeTier] first, so stored values,
// query parameters and flags all land on the same height. An empty tier
// resolves to medium. Any other unknown value returns [FallbackHeight] and
// emits an OnUnknownSizeTier diagnostic.
func LogoHeight(tier SizeTier) int {
	if t, ok := ParseSizeTier(string(tier)); ok {
		return tierHeights[t]
	}
	observability.Layout().OnUnknownSizeTier(string(tier), FallbackHeight)
	return FallbackHeight
}
