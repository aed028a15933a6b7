package sink

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/pages"
)

// PNGOption configures PNG rendering via [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
}

// WithScale sets the device scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG screenshots each page of an HTML document with headless Chrome.
// Pages are the elements with ids page-1 through page-n, as written by
// [RenderHTML]. It returns one PNG per page, in order.
func RenderPNG(ctx context.Context, b *Browser, html []byte, n int, opts ...PNGOption) ([][]byte, error) {
	if n <= 0 {
		return nil, verrors.New(verrors.ErrCodeInvalidInput, "document has no pages")
	}
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}

	shots := make([][]byte, n)
	actions := []chromedp.Action{
		chromedp.EmulateViewport(pages.A4Width, pages.A4Height, chromedp.EmulateScale(r.scale)),
	}
	for i := range shots {
		actions = append(actions, chromedp.Screenshot(pageSelector(i+1), &shots[i], chromedp.ByQuery))
	}
	if err := b.run(ctx, html, pages.A4Width, pages.A4Height, actions...); err != nil {
		return nil, err
	}
	return shots, nil
}

func pageSelector(n int) string { return fmt.Sprintf("#page-%d", n) }
