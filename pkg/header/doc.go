// Package header resolves catalog header layouts.
//
// # Overview
//
// Every catalog template paints a header band that may contain the brand logo
// and the catalog title. Both are positioned by the catalog owner:
//
//   - [LogoPosition]: header-left/center/right, footer-left/center/right, none
//   - [TitlePosition]: left, center, right (header-left etc. also accepted)
//   - [SizeTier]: small, medium, large, xlarge
//
// This package is the single place where those settings are turned into
// concrete directives. Templates call [LogoHeight] once and [Resolve] once per
// render pass and paint with the results. The editor preview, the public
// viewer and the PDF export all go through the same two functions, which is
// what keeps the three surfaces identical.
//
// # Logo Height
//
// [LogoHeight] maps a tier to a pixel height:
//
//	small   24px
//	medium  36px
//	large   48px
//	xlarge  60px
//
// The empty tier means "unset" and resolves to medium. Anything else outside
// the closed set falls back to [FallbackHeight] and is reported through
// observability.Layout().OnUnknownSizeTier; it never fails a render.
//
// # Collisions
//
// When the logo sits in the header and claims the same horizontal anchor as
// the title, the two would overlap. [Resolve] flags the slot and moves the
// title to the first free anchor in the order center, right, left:
//
//	logo header-left   + title left    -> title center
//	logo header-right  + title right   -> title center
//	logo header-center + title center  -> title right
//
// Footer and hidden logos never collide with the title.
//
// Both resolvers are pure functions of their inputs and are safe for
// concurrent use.
package header
