// Package server serves catalogs over HTTP.
//
// Every catalog surface is served from the same render pipeline: the
// editor preview, the public viewer and the PDF/PNG exports all compose the
// catalog through [pipeline.Runner], so a catalog's header looks the same
// wherever it is opened. The JSON endpoints expose the header resolvers and
// the composed frame for editors that paint their own preview.
//
// Routes:
//
//	GET /healthz
//	GET /api/header/resolve?logo_position=&title_position=&logo_size=
//	GET /api/header/tiers
//	GET /api/templates
//	GET /api/catalogs
//	GET /api/catalogs/{ref}/frame?surface=editor|public|export
//	GET /api/catalogs/{ref}/parity
//	GET /api/catalogs/{ref}/export.pdf
//	GET /api/catalogs/{ref}/export.png?page=n
//	GET /editor/catalogs/{ref}
//	GET /c/{slug}
//
// {ref} is a catalog id or share slug.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vitrinhq/vitrin/pkg/pipeline"
)

// Defaults for [New].
const (
	DefaultRequestTimeout  = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Server is the vitrin HTTP server.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router

	baseURL        string
	requestTimeout time.Duration
	embedLogo      bool
	scale          float64
	lang           string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs and errors.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBaseURL sets the public origin used in share links.
func WithBaseURL(u string) Option { return func(s *Server) { s.baseURL = u } }

// WithRequestTimeout bounds each request (default [DefaultRequestTimeout]).
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithExport sets how exports are rendered: whether the logo is embedded
// as a normalized data URI, the PNG device scale and the document language.
func WithExport(embedLogo bool, scale float64, lang string) Option {
	return func(s *Server) {
		s.embedLogo = embedLogo
		s.scale = scale
		s.lang = lang
	}
}

// New returns a server rendering through runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:         runner,
		logger:         log.Default(),
		requestTimeout: DefaultRequestTimeout,
		embedLogo:      true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(middleware.Timeout(s.requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/header/resolve", s.handleHeaderResolve)
		r.Get("/header/tiers", s.handleHeaderTiers)
		r.Get("/templates", s.handleTemplates)
		r.Get("/catalogs", s.handleCatalogs)
		r.Route("/catalogs/{ref}", func(r chi.Router) {
			r.Get("/frame", s.handleFrame)
			r.Get("/parity", s.handleParity)
			r.Get("/export.pdf", s.handleExportPDF)
			r.Get("/export.png", s.handleExportPNG)
		})
	})

	r.Get("/editor/catalogs/{ref}", s.handleEditor)
	r.Get("/c/{slug}", s.handlePublic)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, s.logger, errNotFound)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
