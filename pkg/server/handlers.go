package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitrinhq/vitrin/pkg/catalog"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/header"
	"github.com/vitrinhq/vitrin/pkg/pipeline"
	"github.com/vitrinhq/vitrin/pkg/render"
	"github.com/vitrinhq/vitrin/pkg/templates"
)

type resolveResponse struct {
	LogoSize   header.SizeTier `json:"logo_size"`
	LogoHeight int             `json:"logo_height"`
	Layout     header.Layout   `json:"layout"`
}

func (s *Server) handleHeaderResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	// Raw values go to the resolvers, exactly as a stored catalog would.
	raw := header.SizeTier(q.Get("logo_size"))
	tier, ok := header.ParseSizeTier(string(raw))
	if !ok {
		tier = raw
	}

	writeJSON(w, http.StatusOK, resolveResponse{
		LogoSize:   tier,
		LogoHeight: header.LogoHeight(raw),
		Layout: header.Resolve(
			header.LogoPosition(q.Get("logo_position")),
			header.TitlePosition(q.Get("title_position")),
		),
	})
}

type tierResponse struct {
	Tier   header.SizeTier `json:"tier"`
	Height int             `json:"height"`
}

func (s *Server) handleHeaderTiers(w http.ResponseWriter, r *http.Request) {
	tiers := header.Tiers()
	out := make([]tierResponse, len(tiers))
	for i, t := range tiers {
		out[i] = tierResponse{Tier: t, Height: header.LogoHeight(t)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, templates.All())
}

type catalogSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Layout    string    `json:"layout"`
	ShareSlug string    `json:"share_slug,omitempty"`
	ShareURL  string    `json:"share_url,omitempty"`
	Published bool      `json:"is_published"`
	Products  int       `json:"products"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleCatalogs(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		writeError(w, r, s.logger, verrors.New(verrors.ErrCodeInternal, "no catalog store configured"))
		return
	}
	cs, err := s.runner.Store.List(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	out := make([]catalogSummary, len(cs))
	for i, c := range cs {
		out[i] = catalogSummary{
			ID:        c.ID,
			Name:      c.Name,
			Layout:    c.Layout,
			ShareSlug: c.ShareSlug,
			ShareURL:  s.shareURL(c),
			Published: c.Published,
			Products:  len(c.Products),
			UpdatedAt: c.UpdatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) shareURL(c *catalog.Catalog) string {
	if !c.Published || c.ShareSlug == "" {
		return ""
	}
	return strings.TrimSuffix(s.baseURL, "/") + "/c/" + c.ShareSlug
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	opts := s.options(r, r.URL.Query().Get("surface"), pipeline.FormatJSON)
	s.serve(w, r, chi.URLParam(r, "ref"), opts, false)
}

func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	opts := s.options(r, string(render.SurfaceEditor), pipeline.FormatHTML)
	s.serve(w, r, chi.URLParam(r, "ref"), opts, false)
}

func (s *Server) handlePublic(w http.ResponseWriter, r *http.Request) {
	opts := s.options(r, string(render.SurfacePublic), pipeline.FormatHTML)
	s.serve(w, r, chi.URLParam(r, "slug"), opts, true)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	opts := s.options(r, string(render.SurfaceExport), pipeline.FormatPDF)
	opts.EmbedLogo = s.embedLogo
	s.serve(w, r, chi.URLParam(r, "ref"), opts, false)
}

func (s *Server) handleExportPNG(w http.ResponseWriter, r *http.Request) {
	opts := s.options(r, string(render.SurfaceExport), pipeline.FormatPNG)
	opts.EmbedLogo = s.embedLogo
	s.serve(w, r, chi.URLParam(r, "ref"), opts, false)
}

func (s *Server) handleParity(w http.ResponseWriter, r *http.Request) {
	c, err := s.runner.Load(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	report, err := s.runner.Parity(r.Context(), c, s.options(r, "", pipeline.FormatJSON))
	if report == nil {
		writeError(w, r, s.logger, err)
		return
	}
	// A divergence is reported in the body, not as a failure.
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) options(r *http.Request, surface, format string) pipeline.Options {
	q := r.URL.Query()
	return pipeline.Options{
		Surface:  surface,
		Formats:  []string{format},
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Scale:    s.scale,
		Lang:     s.lang,
		Logger:   s.logger,
	}
}

// serve loads the catalog named by ref, runs the pipeline for the single
// format in opts and writes the artifact.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, ref string, opts pipeline.Options, published bool) {
	ctx := r.Context()

	var (
		c   *catalog.Catalog
		err error
	)
	if published {
		c, err = s.runner.LoadPublished(ctx, ref)
	} else {
		c, err = s.runner.Load(ctx, ref)
	}
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	format := opts.Formats[0]
	page := 1
	if format == pipeline.FormatPNG {
		if p := r.URL.Query().Get("page"); p != "" {
			if page, err = strconv.Atoi(p); err != nil || page < 1 {
				writeError(w, r, s.logger, verrors.New(verrors.ErrCodeInvalidInput, "invalid page %q", p))
				return
			}
		}
	}

	result, err := s.runner.Execute(ctx, c, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.Header().Set("X-Render-ID", result.Document.RenderID)

	name := c.ShareSlug
	if name == "" {
		name = c.ID
	}
	switch format {
	case pipeline.FormatHTML:
		w.Header().Set("Cache-Control", "no-cache")
		writeRaw(w, "text/html; charset=utf-8", result.Artifacts[format])
	case pipeline.FormatJSON:
		writeRaw(w, "application/json; charset=utf-8", result.Artifacts[format])
	case pipeline.FormatPDF:
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".pdf"))
		writeRaw(w, "application/pdf", result.Artifacts[format])
	case pipeline.FormatPNG:
		if page > len(result.Pages) {
			writeError(w, r, s.logger, verrors.New(verrors.ErrCodeNotFound, "page %d of %d", page, len(result.Pages)))
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fmt.Sprintf("%s-%d.png", name, page)))
		writeRaw(w, "image/png", result.Pages[page-1])
	}
}
