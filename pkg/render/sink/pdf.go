package sink

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/vitrinhq/vitrin/pkg/pages"
)

// A4 paper in inches.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// PDFOption configures PDF rendering via [RenderPDF].
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	width, height float64
	background    bool
}

// WithPaperSize sets the paper size in inches (default A4).
func WithPaperSize(width, height float64) PDFOption {
	return func(r *pdfRenderer) { r.width, r.height = width, height }
}

// WithoutBackground skips page backgrounds, useful for ink-saving prints.
func WithoutBackground() PDFOption { return func(r *pdfRenderer) { r.background = false } }

// RenderPDF prints an HTML document to PDF with headless Chrome. Margins are
// zero; page breaks come from the document's print CSS.
func RenderPDF(ctx context.Context, b *Browser, html []byte, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{width: a4WidthInches, height: a4HeightInches, background: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf []byte
	err := b.run(ctx, html, pages.A4Width, pages.A4Height,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(r.background).
				WithPaperWidth(r.width).
				WithPaperHeight(r.height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
