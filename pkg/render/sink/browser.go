package sink

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

// DefaultBrowserTimeout bounds one headless render.
const DefaultBrowserTimeout = 30 * time.Second

// chromePaths are checked in order when CHROME_PATH is unset.
var chromePaths = []string{
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/snap/bin/chromium",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
}

// DetectChromePath returns the Chrome or Chromium binary to use: CHROME_PATH
// if it exists, else the first common install path that exists, else "".
// An empty path lets chromedp search $PATH itself.
func DetectChromePath() string {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range chromePaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Browser runs headless Chrome for PDF and PNG exports. Each render starts
// its own browser process, so a Browser is safe for concurrent use.
type Browser struct {
	execPath string
	timeout  time.Duration
	sandbox  bool
}

// BrowserOption configures a [Browser].
type BrowserOption func(*Browser)

// WithExecPath sets the Chrome binary, overriding detection.
func WithExecPath(path string) BrowserOption { return func(b *Browser) { b.execPath = path } }

// WithTimeout bounds each render (default [DefaultBrowserTimeout]).
func WithTimeout(d time.Duration) BrowserOption { return func(b *Browser) { b.timeout = d } }

// WithSandbox keeps Chrome's sandbox on. It is off by default because the
// sandbox does not start inside most containers.
func WithSandbox() BrowserOption { return func(b *Browser) { b.sandbox = true } }

// NewBrowser returns a browser using the detected Chrome binary.
func NewBrowser(opts ...BrowserOption) *Browser {
	b := &Browser{
		execPath: DetectChromePath(),
		timeout:  DefaultBrowserTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.timeout <= 0 {
		b.timeout = DefaultBrowserTimeout
	}
	return b
}

// ExecPath returns the Chrome binary in use, "" when chromedp searches $PATH.
func (b *Browser) ExecPath() string { return b.execPath }

// Timeout returns the per-render timeout.
func (b *Browser) Timeout() time.Duration { return b.timeout }

func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}
	if !b.sandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return append(opts, chromedp.Flag("enable-print-preview", true))
}

// waitForAssets resolves once fonts and every image have loaded or failed.
const waitForAssets = `Promise.all([
  document.fonts.ready,
  Promise.all(Array.from(document.images).map(function (img) {
    return new Promise(function (resolve) {
      if (img.complete) { resolve(); return; }
      var t = setTimeout(resolve, 5000);
      img.onload = img.onerror = function () { clearTimeout(t); resolve(); };
    });
  }))
]).then(function () { return true; })`

// run loads html into a fresh headless tab, waits for its assets and then
// runs actions.
func (b *Browser) run(ctx context.Context, html []byte, width, height int64, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer allocCancel()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	var ready bool
	steps := []chromedp.Action{
		chromedp.EmulateViewport(width, height),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(waitForAssets, &ready, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	}
	if err := chromedp.Run(tabCtx, append(steps, actions...)...); err != nil {
		return browserError(ctx, err)
	}
	return nil
}

func browserError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return verrors.Wrap(verrors.ErrCodeTimeout, err, "headless render timed out")
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return verrors.Wrap(verrors.ErrCodeBrowser, err, "chrome not found (set CHROME_PATH)")
	case errors.Is(err, chromedp.ErrInvalidContext):
		return verrors.Wrap(verrors.ErrCodeBrowser, err, "headless browser unavailable")
	}
	return verrors.Wrap(verrors.ErrCodeRender, err, "headless render failed")
}
