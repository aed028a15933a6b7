// Package pkg provides the core libraries for Vitrin catalog rendering.
//
// # Overview
//
// Vitrin renders a shop's product catalog for three surfaces: the editor
// preview, the public viewer and PDF/PNG exports. The catalog header (logo
// size, logo placement and title placement) must look the same on all of
// them, so every surface goes through one composition path. The pkg
// directory is organized into these areas:
//
//  1. [header] - The header resolvers (logo height per size tier, logo/title layout)
//  2. [templates], [pages] - Template registry, header frame and page planning
//  3. [render] - Composition into a surface-independent document, and its sinks
//  4. [pipeline] - Orchestration (load → compose → render) with caching
//  5. [catalog], [store] - The catalog model and its SQLite, Postgres and MongoDB stores
//  6. [server] - The HTTP surfaces
//
// # Architecture
//
// The typical data flow through Vitrin:
//
//	Catalog (file or store)
//	         ↓
//	    [templates] package (BuildHeader: the single call site of the resolvers)
//	         ↓
//	    [render] package (Compose: header frame + page plan + theme)
//	         ↓
//	    [render/sink] package (HTML, JSON, PDF, PNG)
//
// # Quick Start
//
// Resolve a header and render a catalog to HTML:
//
//	import (
//	    "context"
//	    "github.com/vitrinhq/vitrin/pkg/catalog"
//	    "github.com/vitrinhq/vitrin/pkg/render"
//	    "github.com/vitrinhq/vitrin/pkg/render/sink"
//	)
//
//	// 1. Load a catalog
//	c, _ := catalog.ReadFile("spring.yaml")
//
//	// 2. Compose it for the public viewer
//	doc, _ := render.Compose(context.Background(), c, render.SurfacePublic, render.ComposeOptions{})
//
//	// 3. Render to HTML
//	html, _ := sink.RenderHTML(doc)
//
// # Main Packages
//
// ## Header Core
//
//   - [header]: LogoHeight maps a size tier to pixels; Resolve places the
//     logo and title and moves the title when both claim a slot
//   - [templates]: Template registry and BuildHeader
//   - [pages]: Product filtering and page planning
//
// ## Rendering
//
//   - [render]: Compose, Frame and CheckParity
//   - [render/sink]: HTML (html/template + sprig), JSON, PDF and PNG (chromedp)
//   - [logo]: Logo normalization to the tier height (imaging)
//
// ## Infrastructure
//
//   - [cache]: Null, file and Redis caches with typed keys
//   - [httputil]: Asset fetching with retry and caching
//   - [store]: Catalog stores (memory, SQLite, Postgres, MongoDB)
//   - [config]: TOML configuration, .env and environment overrides
//   - [observability]: Hooks for layout, pipeline, cache and HTTP events
//   - [errors]: Coded errors and input validation
//   - [buildinfo]: Version information
//
// [header]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/header
// [templates]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/templates
// [pages]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/pages
// [render]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/render/sink
// [logo]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/logo
// [pipeline]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/pipeline
// [catalog]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/catalog
// [store]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/store
// [server]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/server
// [cache]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/httputil
// [config]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/config
// [observability]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/observability
// [errors]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/vitrinhq/vitrin/pkg/buildinfo
package pkg
