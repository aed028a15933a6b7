package sink

import (
	"bytes"
	"embed"
	"html/template"
	"regexp"
	"strings"

	"github.com/Masterminds/sprig/v3"

	"github.com/vitrinhq/vitrin/pkg/buildinfo"
	"github.com/vitrinhq/vitrin/pkg/catalog"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/pages"
	"github.com/vitrinhq/vitrin/pkg/render"
	"github.com/vitrinhq/vitrin/pkg/templates"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var documentTemplate = template.Must(
	template.New("sink").Funcs(funcMap()).ParseFS(templateFS, "templates/*.tmpl"),
)

var (
	httpImage = regexp.MustCompile(`(?i)^https?://`)
	dataImage = regexp.MustCompile(`^data:image/(png|jpeg|gif|webp|svg\+xml);base64,[A-Za-z0-9+/=]+$`)
	cssColor  = regexp.MustCompile(`^(#[0-9A-Fa-f]{3,8}|rgba?\([0-9.,%\s]+\)|[a-zA-Z]+)$`)
)

func funcMap() template.FuncMap {
	fm := sprig.HtmlFuncMap()
	fm["price"] = catalog.FormatPrice
	fm["css"] = func(s string) template.CSS { return template.CSS(stripCSSBreakout(s)) }
	fm["color"] = func(s, fallback string) template.CSS {
		if cssColor.MatchString(strings.TrimSpace(s)) {
			return template.CSS(strings.TrimSpace(s))
		}
		return template.CSS(fallback)
	}
	fm["img"] = imageSrc
	fm["href"] = func(s string) template.URL { return template.URL(templates.SanitizeHref(s)) }
	return fm
}

// imageSrc allows http(s) image URLs and base64 image data URIs.
func imageSrc(s string) template.URL {
	s = strings.TrimSpace(s)
	if httpImage.MatchString(s) || dataImage.MatchString(s) {
		return template.URL(s)
	}
	return ""
}

func stripCSSBreakout(s string) string {
	return strings.NewReplacer("<", "", ">", "", "{", "", "}", "").Replace(s)
}

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	lang     string
	extraCSS string
}

// WithLang sets the document language attribute (default "tr").
func WithLang(lang string) HTMLOption { return func(r *htmlRenderer) { r.lang = lang } }

// WithExtraCSS appends a stylesheet after the template styles.
func WithExtraCSS(css string) HTMLOption { return func(r *htmlRenderer) { r.extraCSS = css } }

type htmlData struct {
	Doc       *render.Document
	Lang      string
	Generator string
	ExtraCSS  template.CSS
	Width     int
	Height    int
	Columns   int
	Fit       string

	Editor bool
	Public bool
	Export bool
}

// RenderHTML renders a composed document as a standalone HTML page.
//
// The header band is painted only from the document's header frame. The
// surface adds chrome: slot outlines in the editor, a page-flip script in
// the public viewer and print CSS for exports.
func RenderHTML(doc *render.Document, opts ...HTMLOption) ([]byte, error) {
	if doc == nil || doc.Catalog == nil {
		return nil, verrors.New(verrors.ErrCodeInvalidInput, "document is required")
	}
	r := htmlRenderer{lang: "tr"}
	for _, opt := range opts {
		opt(&r)
	}

	columns := doc.Catalog.ColumnsPerRow
	if columns < 1 || columns > 6 {
		columns = catalog.DefaultColumns
	}
	fit := doc.Catalog.ProductImageFit
	if fit == "" {
		fit = catalog.DefaultImageFit
	}

	data := htmlData{
		Doc:       doc,
		Lang:      r.lang,
		Generator: buildinfo.UserAgent(),
		ExtraCSS:  template.CSS(strings.ReplaceAll(r.extraCSS, "</", "")),
		Width:     pages.A4Width,
		Height:    pages.A4Height,
		Columns:   columns,
		Fit:       fit,
		Editor:    doc.Surface == render.SurfaceEditor,
		Public:    doc.Surface == render.SurfacePublic,
		Export:    doc.Surface == render.SurfaceExport,
	}

	var buf bytes.Buffer
	if err := documentTemplate.ExecuteTemplate(&buf, "document", data); err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeRender, err, "render html")
	}
	return buf.Bytes(), nil
}
