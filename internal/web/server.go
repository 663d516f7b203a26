package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roach88/times/internal/engine"
	"github.com/roach88/times/internal/ir"
	"github.com/roach88/times/internal/route"
	"github.com/roach88/times/internal/source"
	"github.com/roach88/times/internal/state"
	"github.com/roach88/times/internal/view"
)

// DefaultRenderTimeout bounds how long a request waits for async work.
const DefaultRenderTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Pages *view.Pages

	// Store backs the feed and the JSON API in store mode.
	Store *state.Store
	// Source backs them in fetch mode, limited to FetchLimit posts.
	Source     source.Source
	FetchLimit int

	ExcerptRunes  int
	RenderTimeout time.Duration

	Metrics     *Metrics
	Navigations engine.NavigationRecorder
	Scheduler   engine.Scheduler
	Logger      *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	opts  Options
	table *route.Table
	log   *slog.Logger
}

// NewServer creates a server. Pages and one of Store or Source are required.
func NewServer(opts Options) (*Server, error) {
	if opts.Pages == nil {
		return nil, errors.New("web: pages are required")
	}
	if opts.Store == nil && opts.Source == nil {
		return nil, errors.New("web: a store or a source is required")
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = DefaultRenderTimeout
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = view.DefaultFetchLimit
	}
	if opts.ExcerptRunes == 0 {
		opts.ExcerptRunes = view.DefaultExcerptRunes
	}
	if opts.Scheduler == nil {
		opts.Scheduler = engine.RealScheduler{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{opts: opts, table: route.NewTable(), log: opts.Logger}, nil
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(view.Assets()))).ServeHTTP)
	if s.opts.Metrics != nil {
		r.Get("/metrics", s.opts.Metrics.Handler().ServeHTTP)
	}
	r.Get("/feed.xml", s.feed)
	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", s.listPosts)
		r.Get("/posts/{id}", s.getPost)
	})

	r.Get("/*", s.page)
	r.Post("/*", s.event)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errc
		return nil
	}
}

func (s *Server) newSession(path string) *engine.Engine {
	return engine.New(s.table, s.opts.Pages.Routes(),
		engine.WithShell(s.opts.Pages.Navbar),
		engine.WithLocation(path),
		engine.WithScheduler(s.opts.Scheduler),
		engine.WithNavigationRecorder(s.opts.Navigations),
		engine.WithLogger(s.log),
	)
}

func (s *Server) settle(ctx context.Context, e *engine.Engine) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RenderTimeout)
	defer cancel()
	err := e.Settle(ctx)
	if err != nil && !engine.IsUnhandled(err) {
		s.log.Warn("session did not settle",
			"session", e.Session(),
			"path", e.Location(),
			"error", err,
		)
	}
	return err
}

// Page is one rendered location.
type Page struct {
	Location string        `json:"location"`
	Route    string        `json:"route"`
	HTML     template.HTML `json:"html"`
}

// Render opens a session at path, waits for it to settle (bounded by the
// render timeout) and renders it. Work still pending after the timeout is
// cancelled and the page shows its loading state.
func (s *Server) Render(ctx context.Context, path string) (Page, error) {
	e := s.newSession(path)
	defer e.Close()

	_ = s.settle(ctx, e)
	routeName := e.Match().Route.Name
	html, err := e.Render(ctx)
	if err != nil {
		s.metricFailed(routeName)
		s.log.Error("render failed",
			"session", e.Session(),
			"path", e.Location(),
			"route", routeName,
			"error", err,
		)
		return Page{}, err
	}
	s.metricRendered(routeName)
	return Page{Location: e.Location(), Route: routeName, HTML: html}, nil
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	p, err := s.Render(r.Context(), r.URL.EscapedPath())
	if err != nil {
		http.Error(w, "Something went wrong.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, string(p.HTML))
}

// event delivers the posted UI event and redirects to the resulting location.
func (s *Server) event(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("event")
	if name == "" {
		http.Error(w, "missing event", http.StatusBadRequest)
		return
	}

	e := s.newSession(r.URL.EscapedPath())
	defer e.Close()

	_ = s.settle(r.Context(), e)
	if err := e.Trigger(name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.settle(r.Context(), e); engine.IsUnhandled(err) {
		http.Error(w, fmt.Sprintf("event %q not handled here", name), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, e.Location(), http.StatusSeeOther)
}

func (s *Server) metricRendered(routeName string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.rendered(routeName)
	}
}

func (s *Server) metricFailed(routeName string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.failed(routeName)
	}
}

// currentPosts is the post list the home page would show.
func (s *Server) currentPosts(ctx context.Context) ([]ir.Post, error) {
	if s.opts.Store != nil {
		return s.opts.Store.GetState().Posts, nil
	}
	posts, err := s.opts.Source.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	return source.Limit(posts, s.opts.FetchLimit), nil
}

func (s *Server) findPost(ctx context.Context, id string) (ir.Post, error) {
	if s.opts.Store != nil {
		if p, ok := s.opts.Store.GetState().FindPost(id); ok {
			return p, nil
		}
		return ir.Post{}, fmt.Errorf("post %q: %w", id, source.ErrNotFound)
	}
	return s.opts.Source.GetPost(ctx, id)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
