package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gorilla/feeds"

	"github.com/roach88/times/internal/ir"
	"github.com/roach88/times/internal/source"
	"github.com/roach88/times/internal/view"
)

type postsResponse struct {
	Posts []ir.Post `json:"posts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.currentPosts(r.Context())
	if err != nil {
		s.log.Error("list posts failed", "error", err)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, errorResponse{Error: "could not load posts"})
		return
	}
	if posts == nil {
		posts = []ir.Post{}
	}
	render.JSON(w, r, postsResponse{Posts: posts})
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := s.findPost(r.Context(), id)
	switch {
	case errors.Is(err, source.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: "post not found"})
	case err != nil:
		s.log.Error("get post failed", "id", id, "error", err)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, errorResponse{Error: "could not load post"})
	default:
		render.JSON(w, r, post)
	}
}

// feed serves the current posts as RSS.
func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.currentPosts(r.Context())
	if err != nil {
		s.log.Error("feed failed", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusBadGateway)
		return
	}

	base := siteURL(r)
	feed := &feeds.Feed{
		Title:       view.Brand,
		Link:        &feeds.Link{Href: base + "/"},
		Description: "Latest posts from " + view.Brand,
		Created:     time.Now(),
	}
	for _, p := range posts {
		link := base + view.PostHref(p.ID)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Description: view.Excerpt(p.Body, s.opts.ExcerptRunes),
		})
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if err := feed.WriteRss(w); err != nil {
		s.log.Error("write rss failed", "error", err)
	}
}

func siteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
