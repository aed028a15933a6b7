// Package render composes catalog documents for every surface.
//
// # Overview
//
// A catalog is shown in three places: the editor preview, the public viewer
// and the PDF/PNG export. All three call [Compose], which looks up the
// template, builds the header frame and plans the pages. The surface only
// changes the chrome around the pages, never the header or the page plan.
//
//	doc, err := render.Compose(ctx, c, render.SurfaceExport, render.ComposeOptions{})
//	html, err := sink.RenderHTML(doc)
//	pdf, err := sink.RenderPDF(ctx, browser, html)
//
// # Parity
//
// [Document.Frame] returns the surface-independent part of a document.
// [CheckParity] composes every surface concurrently and reports the first
// place where their frames differ.
//
// # Sinks
//
// The [sink] subpackage turns a document into HTML, JSON, PDF or PNG.
//
// [sink]: github.com/vitrinhq/vitrin/pkg/render/sink
package render
