package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/assets"
	"github.com/campuskit/campuskit/internal/config"
	"github.com/campuskit/campuskit/internal/pipeline"
	"github.com/campuskit/campuskit/internal/store"
)

// ContentStore is the part of the store the host reads from.
type ContentStore interface {
	GetPublished(ctx context.Context, subjectSlug, slug string) (*store.Content, error)
	IncrementViews(ctx context.Context, id string) (int64, error)
	ListPublished(ctx context.Context, subjectSlug string) ([]store.Content, error)
	ListCategories(ctx context.Context) ([]store.Category, error)
	ListAssets(ctx context.Context, ownerID string) ([]store.Asset, error)
	Ping(ctx context.Context) error
}

// Compile-time interface check.
var _ ContentStore = (*store.Store)(nil)

// RendererSource hands out renderers for snapshot exports.
// *campuskit.RendererPool satisfies it.
type RendererSource interface {
	Acquire(ctx context.Context) (*campuskit.Renderer, error)
	Release(r *campuskit.Renderer)
}

var _ RendererSource = (*campuskit.RendererPool)(nil)

// Defaults applied when the config leaves a timeout at zero.
const (
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
	idleTimeout            = 60 * time.Second
	maxPreviewBytes        = 2 << 20
)

// Server is the rendering host.
type Server struct {
	cfg       *config.Config
	store     ContentStore
	renderers RendererSource
	logger    *zap.Logger
	metrics   *metrics
	loader    assets.AssetLoader
	registry  *prom.Registry
	policy    campuskit.SandboxPolicy

	pages     pages
	siteCSS   string
	guideCSS  template.CSS
	guideHTML template.HTML
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRenderers enables snapshot export through rs.
func WithRenderers(rs RendererSource) Option {
	return func(s *Server) { s.renderers = rs }
}

// WithRegistry registers the host metrics on reg instead of a private registry.
func WithRegistry(reg *prom.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithLoader replaces the site asset loader built from cfg.Assets.BasePath.
func WithLoader(l assets.AssetLoader) Option {
	return func(s *Server) { s.loader = l }
}

// New builds the host: it parses the page templates, loads the site
// stylesheet and renders the guide once.
func New(ctx context.Context, cfg *config.Config, st ContentStore, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		cfg:   cfg,
		store: st,
		policy: campuskit.SandboxPolicy{
			Preview:   cfg.Sandbox.Preview,
			Card:      cfg.Sandbox.Card,
			Published: cfg.Sandbox.Published,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.loader == nil {
		resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
		if err != nil {
			return nil, fmt.Errorf("site assets: %w", err)
		}
		s.loader = resolver
	}
	s.metrics = newMetrics(s.registry)

	var err error
	if s.pages, err = parsePages(s.loader); err != nil {
		return nil, err
	}
	if s.siteCSS, err = s.loader.LoadStyle(assets.DefaultStyleName); err != nil {
		return nil, fmt.Errorf("site stylesheet: %w", err)
	}
	if err := s.loadGuide(ctx); err != nil {
		return nil, err
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) loadGuide(ctx context.Context) error {
	name := s.cfg.Site.Guide
	if name == "" {
		name = assets.GuideDocument
	}
	src, err := s.loader.LoadDocument(name)
	if err != nil {
		return fmt.Errorf("guide: %w", err)
	}
	body, err := pipeline.NewGuideConverter().ToHTML(ctx, src)
	if err != nil {
		return fmt.Errorf("guide: %w", err)
	}
	css, err := pipeline.HighlightCSS()
	if err != nil {
		return fmt.Errorf("guide: %w", err)
	}
	// goldmark runs without the unsafe option, so raw HTML in the guide is
	// already omitted from body.
	s.guideHTML = template.HTML(body)
	s.guideCSS = template.CSS(css)
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(s.handleNotFound)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	r.Get("/static/site.css", s.handleSiteCSS)

	r.Get("/", s.handleIndex)
	r.Get("/guide", s.handleGuide)

	r.Route("/api", func(r chi.Router) {
		r.Get("/contents", s.handleListContents)
		r.Get("/categories", s.handleListCategories)
		r.Get("/assets", s.handleListAssets)
		r.Post("/preview", s.handlePreview)
	})

	r.Route("/{subject}/{slug}", func(r chi.Router) {
		r.Get("/", s.handleContentPage)
		r.Get("/document", s.handleDocument(campuskit.ModePublished))
		r.Get("/card", s.handleDocument(campuskit.ModeCard))
		r.Get("/source", s.handleSource)
		r.Get("/export.pdf", s.handleExport(campuskit.FormatPDF))
		r.Get("/thumbnail.png", s.handleExport(campuskit.FormatPNG))
	})

	return r
}

// Handler returns the host's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within cfg.Server.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       idleTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := s.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), timeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSiteCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(s.siteCSS))
}
