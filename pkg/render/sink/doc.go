// Package sink provides output format renderers for composed catalogs.
//
// # Overview
//
// A "sink" transforms a [render.Document] into a final output format:
//
//   - HTML: standalone page with the surface's chrome
//   - JSON: the surface-independent frame, for editors and tooling
//   - PDF: print-ready A4 output (requires Chrome or Chromium)
//   - PNG: one screenshot per page (requires Chrome or Chromium)
//
// # HTML Output
//
// [RenderHTML] executes the embedded templates with sprig helpers. The
// header band is painted only from the document's header frame, so every
// surface shows the same header:
//
//	html, err := sink.RenderHTML(doc, sink.WithLang("en"))
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] load export HTML into a headless tab with an
// A4 viewport (794x1123 CSS pixels) and print or screenshot it:
//
//	b := sink.NewBrowser(sink.WithTimeout(time.Minute))
//	pdf, err := sink.RenderPDF(ctx, b, html)
//	pngs, err := sink.RenderPNG(ctx, b, html, len(doc.Pages), sink.WithScale(2))
//
// The Chrome binary comes from CHROME_PATH or a common install path; see
// [DetectChromePath].
//
// [render.Document]: github.com/vitrinhq/vitrin/pkg/render.Document
package sink
