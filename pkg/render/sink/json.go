package sink

import (
	"encoding/json"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/pages"
	"github.com/vitrinhq/vitrin/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent   bool
	products bool
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithJSONProducts includes the full product records of every page in
// addition to the product ids in the frame.
func WithJSONProducts() JSONOption { return func(r *jsonRenderer) { r.products = true } }

type jsonOutput struct {
	RenderID         string         `json:"render_id"`
	CatalogID        string         `json:"catalog_id"`
	Surface          render.Surface `json:"surface"`
	TemplateFallback bool           `json:"template_fallback,omitempty"`
	LogoSrc          string         `json:"logo_src,omitempty"`
	Frame            render.Frame   `json:"frame"`
	Pages            []pages.Page   `json:"pages,omitempty"`
}

// RenderJSON renders the document frame as JSON. Editors and external
// tools use it to paint the header exactly as the export does.
func RenderJSON(doc *render.Document, opts ...JSONOption) ([]byte, error) {
	if doc == nil {
		return nil, verrors.New(verrors.ErrCodeInvalidInput, "document is required")
	}
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		RenderID:         doc.RenderID,
		Surface:          doc.Surface,
		TemplateFallback: doc.TemplateFallback,
		LogoSrc:          doc.LogoSrc,
		Frame:            doc.Frame(),
	}
	if doc.Catalog != nil {
		out.CatalogID = doc.Catalog.ID
	}
	if r.products {
		out.Pages = doc.Pages
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
